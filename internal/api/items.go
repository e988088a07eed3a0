package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nmolina/reciclo/internal/imaging"
	"github.com/nmolina/reciclo/internal/model"
	"github.com/nmolina/reciclo/internal/store"
)

// ItemsHandler handles listing endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// Coordinates arrive as strings and are parsed server-side; non-numeric
// input is rejected.
type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
	Address     string `json:"address"`
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lat, err := strconv.ParseFloat(req.Lat, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "latitude must be a valid number")
		return
	}
	lng, err := strconv.ParseFloat(req.Lng, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "longitude must be a valid number")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.Title, req.Description, req.Category, lat, lng, req.Address, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	itemsCreated.Inc()
	item.Images = []string{}
	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /api/items with the search filters.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.SearchFilter{
		Query:           q.Get("query"),
		Category:        q.Get("category"),
		ProcessingState: q.Get("processingState"),
	}
	if owner := q.Get("ownerId"); owner != "" {
		id, err := strconv.ParseInt(owner, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid ownerId")
			return
		}
		filter.OwnerID = id
	}

	// The proximity filter only applies when all three parameters parse;
	// otherwise it is skipped, matching the permissive query contract.
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	radius, radErr := strconv.ParseFloat(q.Get("radius"), 64)
	if latErr == nil && lngErr == nil && radErr == nil {
		filter.Geo = &store.GeoFilter{Lat: lat, Lng: lng, RadiusKm: radius}
	}

	items, err := store.SearchItems(r.Context(), h.DB, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	for i := range items {
		if err := attachImageHandles(r.Context(), h.DB, &items[i]); err != nil {
			writeError(w, err)
			return
		}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil || item.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if err := attachImageHandles(r.Context(), h.DB, item); err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id, claims.UserID, claims.Role); err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// MarkBaled handles PATCH (and POST) /api/items/{id}/bale.
func (h *ItemsHandler) MarkBaled(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.MarkItemBaled(r.Context(), h.DB, id, claims.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"id":              item.ID,
		"processingState": item.ProcessingState,
	})
}

// UploadImage handles POST /api/items/{id}/images.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, mime, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	position, err := store.AddItemImage(r.Context(), h.DB, id, claims.UserID, data, mime)
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"position": position,
		"url":      imageHandle(id, position),
	})
}

// GetImage handles GET /api/items/{id}/images/{n}.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	position, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid image position")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id, position)
	if err != nil {
		writeError(w, err)
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// imageHandle builds the opaque URL a listing exposes for one of its photos.
func imageHandle(itemID int64, position int) string {
	return fmt.Sprintf("/api/items/%d/images/%d", itemID, position)
}

// attachImageHandles populates item.Images with the handle URLs for its
// stored photos.
func attachImageHandles(ctx context.Context, db *sql.DB, item *model.Item) error {
	positions, err := store.ListImagePositions(ctx, db, item.ID)
	if err != nil {
		return err
	}
	item.Images = make([]string, 0, len(positions))
	for _, p := range positions {
		item.Images = append(item.Images, imageHandle(item.ID, p))
	}
	return nil
}
