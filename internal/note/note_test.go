package note

import (
	"testing"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Q3 Plan", "Q3 Plan"},
		{"  padded  ", "padded"},
		{"", DefaultTitle},
		{"   ", DefaultTitle},
	}

	for _, tc := range cases {
		if got := NormalizeTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty("  ", "\n\t") {
		t.Error("whitespace-only buffers should count as empty")
	}
	if IsEmpty("", "body") {
		t.Error("content alone should count as non-empty")
	}
	if IsEmpty("title", "") {
		t.Error("title alone should count as non-empty")
	}
}

func TestAttachmentFieldsSkipUnset(t *testing.T) {
	fields := Attachment{FileName: "a.md", FileType: "text/markdown", ImportedFromFile: true}.Fields()

	if _, ok := fields["fileUrl"]; ok {
		t.Error("unset fileUrl should not be present")
	}
	if fields["fileName"] != "a.md" {
		t.Errorf("fileName = %v, want a.md", fields["fileName"])
	}
	if fields["importedFromFile"] != true {
		t.Error("importedFromFile should be carried")
	}
}

func TestModifiedFallsBackToCreation(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := Note{CreatedAt: models.CustomDateTime{Time: created}}

	if !n.Modified().Equal(created) {
		t.Errorf("Modified() = %v, want creation time %v", n.Modified(), created)
	}

	updated := created.Add(time.Hour)
	n.UpdatedAt = models.CustomDateTime{Time: updated}
	if !n.Modified().Equal(updated) {
		t.Errorf("Modified() = %v, want update time %v", n.Modified(), updated)
	}
}

func TestStringID(t *testing.T) {
	var n Note
	if n.StringID() != "" {
		t.Errorf("StringID() on unsaved note = %q, want empty", n.StringID())
	}

	rid := models.NewRecordID("note", "abc")
	n.ID = &rid
	if n.StringID() != "note:abc" {
		t.Errorf("StringID() = %q, want note:abc", n.StringID())
	}
}
