package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/dialogue"
	"github.com/jwebster45206/yingzhou/pkg/minigame"
	"github.com/jwebster45206/yingzhou/pkg/state"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <save.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &SaveValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	for _, w := range validator.warnings {
		fmt.Printf("warning: %s\n", w)
	}

	fmt.Println("Save file is valid!")
}

// SaveValidator checks a save file beyond what loading requires, so that
// hand-edited saves fail loudly instead of being partially ignored.
type SaveValidator struct {
	errors   []string
	warnings []string
}

func (v *SaveValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if !strings.HasSuffix(filepath.Base(filename), ".json") {
		return fmt.Errorf("save file must have .json extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	_, err = v.validate(data)
	if err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}
	return nil
}

// validate decodes data strictly and collects every problem it finds.
func (v *SaveValidator) validate(data []byte) (*state.SaveRecord, error) {
	v.errors = nil
	v.warnings = nil

	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	var rec state.SaveRecord
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed strict JSON unmarshaling: %w", err)
	}

	if err := rec.Validate(); err != nil {
		v.addError("%v", err)
	}
	if rec.ID == uuid.Nil {
		v.addWarning("no id; a new one is assigned on load")
	}
	if n := len(rec.CollectedFragments); n < rec.FragmentsCollected {
		v.addWarning("fragmentsCollected is %d but only %d keys are listed", rec.FragmentsCollected, n)
	}
	v.validateMiniGames(rec.CompletedMiniGames)
	v.validateDialogues(rec.UnlockedDialogues)

	if len(v.errors) > 0 {
		return nil, fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return &rec, nil
}

func (v *SaveValidator) validateMiniGames(ids []string) {
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			v.addError("completedMiniGames[%d] is blank", i)
			continue
		}
		name := trimmed
		if g, err := minigame.Lookup(trimmed); err == nil {
			name = g.ID
		} else {
			v.addWarning("completedMiniGames[%d] %q is not a known trial", i, trimmed)
		}
		if seen[name] {
			v.addWarning("completedMiniGames lists %q more than once", name)
		}
		seen[name] = true
	}
}

// Unlocked dialogue keys are "<npc>/<branch>".
func (v *SaveValidator) validateDialogues(keys []string) {
	for i, key := range keys {
		npc, branch, ok := strings.Cut(key, "/")
		if !ok {
			v.addError("unlockedDialogues[%d] %q is not of the form npc/branch", i, key)
			continue
		}
		variant, ok := dialogue.ParseVariant(npc)
		if !ok {
			v.addError("unlockedDialogues[%d] names unknown NPC %q", i, npc)
			continue
		}
		n, err := strconv.Atoi(branch)
		if err != nil || n < 0 || n >= variant.Branches() {
			v.addError("unlockedDialogues[%d] branch %q is out of range for %s (0-%d)",
				i, branch, variant.ID(), variant.Branches()-1)
		}
	}
}

func (v *SaveValidator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *SaveValidator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}
