package fivek

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Root is the dataset endpoint. The listing is fetched from the root
// itself; images live under {Root}/img/tiff16_{expert}/.
const Root = "https://data.csail.mit.edu/graphics/fivek"

// MaxIndex is the highest image index published by the dataset.
const MaxIndex = 5000

// DirPrefix is the destination prefix under which expert directories
// are created.
const DirPrefix = "fivek_expert"

// Experts lists the valid expert identifiers, one per retouching style.
var Experts = []string{"a", "b", "c", "d", "e"}

// Common errors.
var (
	ErrNoExperts     = errors.New("fivek: no experts configured")
	ErrUnknownExpert = errors.New("fivek: unknown expert identifier")
	ErrInvalidRange  = errors.New("fivek: invalid image range")
)

// Task is one immutable download unit: a path relative to Root and the
// destination key the image is stored under.
type Task struct {
	RemotePath string // img/tiff16_a/a0289-xyz.tif
	Key        string // fivek_expert/tiff16_a/a0289-xyz.tif
}

// Name returns the image filename, used in diagnostics.
func (t Task) Name() string {
	return path.Base(t.RemotePath)
}

// ValidExpert reports whether e is one of the known expert identifiers.
func ValidExpert(e string) bool {
	for _, known := range Experts {
		if e == known {
			return true
		}
	}
	return false
}

// ExpertDir returns the destination directory key for one expert,
// e.g. "fivek_expert/tiff16_a".
func ExpertDir(expert string) string {
	return DirPrefix + "/tiff16_" + expert
}

// ExpectedTotal returns the estimated task count for a run,
// (to - from) * len(experts). It is a progress estimate only; the
// authoritative count is whatever Extract yields from the listing.
func ExpectedTotal(experts []string, from, to int) int {
	return (to - from) * len(experts)
}

// Extract scans the listing body for image paths under the configured
// experts and returns a Task for every path whose 4-digit index lies in
// the inclusive range [from, to]. Tasks are returned in the order the
// paths appear in the body.
func Extract(text string, experts []string, from, to int) ([]Task, error) {
	if len(experts) == 0 {
		return nil, ErrNoExperts
	}
	for _, e := range experts {
		if !ValidExpert(e) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExpert, e)
		}
	}
	if from < 0 || to > MaxIndex || from >= to {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, from, to)
	}

	// Image filenames start with the expert letter followed by the
	// 4-digit index, e.g. a0289-jmac_DSC1459.tif.
	re := regexp.MustCompile(
		fmt.Sprintf(`img/tiff16_[%s]/[a-e](\d{4})\S*?\.tif`, strings.Join(experts, "")),
	)

	var tasks []Task
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if idx < from || idx > to {
			continue
		}
		remote := m[0]
		tasks = append(tasks, Task{
			RemotePath: remote,
			Key:        DirPrefix + strings.TrimPrefix(remote, "img"),
		})
	}
	return tasks, nil
}
