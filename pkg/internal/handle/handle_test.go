package handle

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrPermissionDenied, http.StatusForbidden},
		{service.ErrPublishLocked, http.StatusConflict},
		{service.ErrAlreadyDecided, http.StatusConflict},
		{service.ErrAlreadyPublished, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
		// 包装后的哨兵错误一样能映射
		{fmt.Errorf("release %q: %w", "x", service.ErrNotFound), http.StatusNotFound},
	}

	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

// 文件列表列损坏时视图降级为空列表，不 panic；错误走日志.
func TestReleaseViewCorruptFileList(t *testing.T) {
	r := &model.Release{
		ID:                 "01HZX0000000000000000000R1",
		Status:             model.ReleaseRequested,
		RequestedFilesJSON: "{not json",
		Workspace:          model.Workspace{Name: "ws1"},
		Backend:            model.Backend{Slug: "tpp"},
	}

	view := releaseView(r)
	if len(view.RequestedFiles) != 0 {
		t.Fatalf("requested files = %v, want empty", view.RequestedFiles)
	}

	if view.Workspace != "ws1" || view.Status != string(model.ReleaseRequested) {
		t.Fatalf("view not assembled: %+v", view)
	}
}
