package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/stagerig/rigsim/backend-go/internal/asset"
	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/document"
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
	"github.com/stagerig/rigsim/backend-go/internal/rig"
)

const maxUploadSize = 20 << 20 // 20MB

// Response headers set by ExportPhoto.
const (
	HeaderRareFixtures = "X-Rare-Fixtures"
	HeaderPhotoURL     = "X-Photo-URL"
)

type Handler struct {
	store *asset.Store
	stage beam.Stage
}

func NewHandler(store *asset.Store, stage beam.Stage) *Handler {
	return &Handler{store: store, stage: stage}
}

// ExportPhoto handles POST /export/photo: a multipart form with an "image"
// screenshot (PNG or JPEG) and the "scene" it shows. The response is the
// annotated PNG.
func (h *Handler) ExportPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/png") && !strings.HasPrefix(contentType, "image/jpeg") {
		http.Error(w, "only PNG and JPEG images are supported", http.StatusBadRequest)
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	sceneData, err := sceneField(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	records, err := document.Parse(sceneData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fixtures := h.rebuild(records)
	summary := Summarize(fixtures)
	b := img.Bounds()
	markers := Markers(PhotoCamera(b.Dx(), b.Dy()), summary, fixtures)
	out := Annotate(img, summary, markers)

	photo, err := h.store.SavePNG(out)
	if err != nil {
		slog.Error("store photo", "error", err)
		http.Error(w, "failed to save photo", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		slog.Error("encode png", "error", err)
		http.Error(w, "failed to encode image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stage_photo_%s.png"`, photo.ID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set(HeaderRareFixtures, joinIDs(summary.Rare))
	w.Header().Set(HeaderPhotoURL, photo.URL)
	w.Write(buf.Bytes())

	slog.Info("photo exported", "id", photo.ID, "fixtures", len(fixtures), "rare", len(summary.Rare))
}

// rebuild loads records into a throwaway registry so the summary sees the
// same clamped values the editor does.
func (h *Handler) rebuild(records []document.Record) []*fixture.Fixture {
	stage := h.stage
	reg := rig.NewRegistry(fixture.Env{Stage: &stage, Meshes: fixture.NewMeshPool()})
	document.Deserialize(records, reg)
	return reg.All()
}

var errMissingScene = errors.New("missing scene field")

func sceneField(r *http.Request) ([]byte, error) {
	if v := r.FormValue("scene"); v != "" {
		return []byte(v), nil
	}
	f, _, err := r.FormFile("scene")
	if err != nil {
		return nil, errMissingScene
	}
	defer f.Close()
	return io.ReadAll(f)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
