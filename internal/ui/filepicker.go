package ui

import (
	"github.com/charmbracelet/huh"
)

// SelectFiles lets the user pick which files to process. Every file starts
// selected.
func SelectFiles(files []string) ([]string, error) {
	selectedFiles := append([]string(nil), files...)
	var options []huh.Option[string]

	for _, file := range files {
		options = append(options, huh.NewOption(file, file).Selected(true))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select files to resolve:").
				Options(options...).
				Value(&selectedFiles),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	return selectedFiles, nil
}
