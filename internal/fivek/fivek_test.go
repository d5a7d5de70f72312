package fivek

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

const listingSnippet = `
<html><body>
<a href="img/tiff16_a/a0289-jmac_DSC1459.tif">a0289</a>
<a href="img/tiff16_a/a0290-dgw_005.tif">a0290</a>
<a href="img/tiff16_b/b0289-jmac_DSC1459.tif">b0289</a>
<a href="img/tiff16_c/c4999-kme_0204.tif">c4999</a>
<a href="img/dng/a0289-jmac_DSC1459.dng">raw</a>
</body></html>
`

func TestExtract(t *testing.T) {
	tasks, err := Extract(listingSnippet, []string{"a", "b"}, 0, 5000)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []Task{
		{RemotePath: "img/tiff16_a/a0289-jmac_DSC1459.tif", Key: "fivek_expert/tiff16_a/a0289-jmac_DSC1459.tif"},
		{RemotePath: "img/tiff16_a/a0290-dgw_005.tif", Key: "fivek_expert/tiff16_a/a0290-dgw_005.tif"},
		{RemotePath: "img/tiff16_b/b0289-jmac_DSC1459.tif", Key: "fivek_expert/tiff16_b/b0289-jmac_DSC1459.tif"},
	}

	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d: %v", len(want), len(tasks), tasks)
	}
	for i, task := range tasks {
		if task != want[i] {
			t.Errorf("task %d = %+v, want %+v", i, task, want[i])
		}
	}
}

func TestExtractRangeFilter(t *testing.T) {
	// Both bounds are inclusive.
	body := `img/tiff16_a/a0289.tif img/tiff16_a/a0300.tif img/tiff16_a/a0500.tif`

	tasks, err := Extract(body, []string{"a"}, 289, 300)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d: %v", len(tasks), tasks)
	}
	if tasks[0].RemotePath != "img/tiff16_a/a0289.tif" {
		t.Errorf("unexpected first task: %+v", tasks[0])
	}
	if tasks[1].RemotePath != "img/tiff16_a/a0300.tif" {
		t.Errorf("unexpected second task: %+v", tasks[1])
	}
	for _, task := range tasks {
		if strings.Contains(task.RemotePath, "a0500") {
			t.Errorf("a0500 is outside the range but was selected: %+v", task)
		}
	}
}

func TestExtractExpertFilter(t *testing.T) {
	tasks, err := Extract(listingSnippet, []string{"c"}, 0, 5000)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d: %v", len(tasks), tasks)
	}
	if tasks[0].RemotePath != "img/tiff16_c/c4999-kme_0204.tif" {
		t.Errorf("unexpected task: %+v", tasks[0])
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name    string
		experts []string
		from    int
		to      int
		wantErr error
	}{
		{"no experts", nil, 0, 5000, ErrNoExperts},
		{"unknown expert", []string{"z"}, 0, 5000, ErrUnknownExpert},
		{"negative from", []string{"a"}, -1, 10, ErrInvalidRange},
		{"to beyond max", []string{"a"}, 0, 5001, ErrInvalidRange},
		{"from not below to", []string{"a"}, 10, 10, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(listingSnippet, tt.experts, tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpectedTotal(t *testing.T) {
	if got := ExpectedTotal([]string{"a"}, 289, 300); got != 11 {
		t.Errorf("expected 11, got %d", got)
	}
	if got := ExpectedTotal(Experts, 0, 5000); got != 25000 {
		t.Errorf("expected 25000, got %d", got)
	}
}

func TestExtractLargeListing(t *testing.T) {
	// Index filtering must hold for every produced task.
	var b strings.Builder
	for i := 0; i <= 100; i++ {
		fmt.Fprintf(&b, "img/tiff16_a/a%04d-x.tif\nimg/tiff16_e/e%04d-x.tif\n", i, i)
	}

	tasks, err := Extract(b.String(), []string{"a", "e"}, 25, 75)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(tasks) != 102 {
		t.Fatalf("expected 102 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		var expert string
		var idx int
		if _, err := fmt.Sscanf(task.Name(), "%1s%04d", &expert, &idx); err != nil {
			t.Fatalf("parse %q: %v", task.Name(), err)
		}
		if idx < 25 || idx > 75 {
			t.Errorf("task %q outside range [25, 75]", task.Name())
		}
		if expert != "a" && expert != "e" {
			t.Errorf("task %q has unexpected expert %q", task.Name(), expert)
		}
	}
}

func TestValidExpert(t *testing.T) {
	for _, e := range Experts {
		if !ValidExpert(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}
	if ValidExpert("f") {
		t.Error("expected 'f' to be invalid")
	}
	if ValidExpert("") {
		t.Error("expected empty string to be invalid")
	}
}
