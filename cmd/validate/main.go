package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/traits"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <character.json> [more.json ...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &CharacterValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

// CharacterValidator checks a pre-made character sheet before it is
// shipped under data/characters.
type CharacterValidator struct {
	errors []string
}

func (v *CharacterValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("character file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidTemplateFilename(nameWithoutExt) {
		return fmt.Errorf("character filename '%s' must be lowercase snake_case (e.g., erian_li_halan.json, not Erian-Li-Halan.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var spec character.Spec
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&spec); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.validateCharacter(&spec)

	// The server loads sheets the same way; a file it can't build is invalid.
	if _, err := character.Load(filename); err != nil {
		v.addError(err.Error())
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *CharacterValidator) validateCharacter(spec *character.Spec) {
	if spec.ID == uuid.Nil {
		v.addError("id is required so characters created from this sheet keep stable item ids")
	}

	if err := spec.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			v.addError(strings.TrimPrefix(line, character.ErrInvalidCharacter.Error()+": "))
		}
	}

	// A sheet must be complete to be rolled against.
	for _, k := range traits.AllCharacteristics() {
		if _, ok := spec.Characteristics[k]; !ok {
			v.addError(fmt.Sprintf("characteristic %s is missing", k))
		}
	}
	for _, p := range traits.SpiritPairs() {
		if _, ok := spec.SpiritPrimary[p]; !ok {
			v.addError(fmt.Sprintf("spirit pair %s has no primary side", p))
		}
	}

	for _, it := range spec.Items {
		if it.ID == uuid.Nil {
			v.addError(fmt.Sprintf("item %q has no id", it.Name))
		}
	}
}

func (v *CharacterValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidTemplateFilename(name string) bool {
	return validFilenameRegex.MatchString(name)
}
