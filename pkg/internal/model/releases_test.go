package model_test

import (
	"testing"
	"time"

	"github.com/yeisme/airvault/pkg/internal/model"
)

func TestFormatSize(t *testing.T) {
	cases := []struct {
		name   string
		size   int64
		format model.SizeFormat
		want   string
	}{
		{"bytes grouped", 1024, model.SizeBytes, "1,024b"},
		{"bytes large", 1048576, model.SizeBytes, "1,048,576b"},
		{"bytes small", 999, model.SizeBytes, "999b"},
		{"one kilobyte", 1024, model.SizeKilobytes, "1Kb"},
		{"kilobytes fraction", 1536, model.SizeKilobytes, "1.5Kb"},
		{"kilobytes grouped", 1048576, model.SizeKilobytes, "1,024Kb"},
		{"one megabyte", 1048576, model.SizeMegabytes, "1Mb"},
		{"megabytes tiny", 1024, model.SizeMegabytes, "0Mb"},
		// 128/1024*100 = 12.5，银行家舍入取偶数 12
		{"half rounds to even down", 128, model.SizeKilobytes, "0.12Kb"},
		// 384/1024*100 = 37.5，取偶数 38
		{"half rounds to even up", 384, model.SizeKilobytes, "0.38Kb"},
		{"zero", 0, model.SizeKilobytes, "0Kb"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := model.ReleaseFile{Size: tc.size}

			got, err := f.FormatSize(tc.format)
			if err != nil {
				t.Fatalf("FormatSize(%q): %v", tc.format, err)
			}

			if got != tc.want {
				t.Errorf("FormatSize(%d, %q) = %q, want %q", tc.size, tc.format, got, tc.want)
			}
		})
	}
}

func TestFormatSizeUnknownFormat(t *testing.T) {
	f := model.ReleaseFile{Size: 1}

	if _, err := f.FormatSize("Gb"); err == nil {
		t.Fatal("expected error for unknown size format")
	}
}

func TestReleaseFileSoftDeleteMarkers(t *testing.T) {
	var f model.ReleaseFile

	if f.IsSoftDeleted() {
		t.Fatal("fresh file should not be marked deleted")
	}

	now := time.Now()
	f.DeletedAt = &now

	// 只设置一半标记不算删除，成对才算
	if f.IsSoftDeleted() {
		t.Fatal("half-set markers must not count as deleted")
	}

	uid := uint(7)
	f.DeletedByID = &uid

	if !f.IsSoftDeleted() {
		t.Fatal("both markers set, expected deleted")
	}
}

func TestReleaseRequestedFilesRoundTrip(t *testing.T) {
	var r model.Release

	files, err := r.RequestedFiles()
	if err != nil || files != nil {
		t.Fatalf("empty release: got %v, %v", files, err)
	}

	want := []string{"results/table1.csv", "results/figure2.png"}
	if err := r.SetRequestedFiles(want); err != nil {
		t.Fatalf("SetRequestedFiles: %v", err)
	}

	got, err := r.RequestedFiles()
	if err != nil {
		t.Fatalf("RequestedFiles: %v", err)
	}

	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("round trip mismatch: got %v, want %v", got, want)
	}
}

func TestSnapshotDraftState(t *testing.T) {
	var s model.Snapshot

	if !s.IsDraft() {
		t.Fatal("new snapshot should be draft")
	}

	if s.IsPublished() != nil {
		t.Fatal("draft snapshot should report nil publish time")
	}

	now := time.Now()
	s.PublishedAt = &now

	if s.IsDraft() {
		t.Fatal("published snapshot is no longer draft")
	}

	if got := s.IsPublished(); got == nil || !got.Equal(now) {
		t.Errorf("IsPublished() = %v, want %v", got, now)
	}
}
