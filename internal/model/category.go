package model

// Category is a named list of candidate secret words
type Category struct {
	Name  string   `json:"name" yaml:"name"`
	Words []string `json:"words" yaml:"words"`
}
