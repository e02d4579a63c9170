package fakeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadSize = 32 << 20

type storedFile struct {
	name    string
	content []byte
}

type viewRows struct {
	order []string
	rows  map[string]map[string]any
}

type dataStore struct {
	mu    sync.Mutex
	views []View
	rows  map[string]*viewRows
	files map[string]storedFile
	users []map[string]any
}

func newDataStore(views []View, username string) *dataStore {
	d := &dataStore{
		views: views,
		rows:  make(map[string]*viewRows, len(views)),
		files: make(map[string]storedFile),
		users: []map[string]any{{
			"email":     username,
			"firstName": "Test",
			"lastName":  "User",
			"timeZone":  "UTC",
		}},
	}
	for _, v := range views {
		d.rows[v.ID] = &viewRows{rows: make(map[string]map[string]any)}
	}
	return d
}

func (d *dataStore) view(id string) (View, bool) {
	for _, v := range d.views {
		if v.ID == id {
			return v, true
		}
	}
	return View{}, false
}

func (d *dataStore) insert(viewID string, rows []map[string]any) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	vr, ok := d.rows[viewID]
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id := uuid.NewString()
		stored := make(map[string]any, len(row)+1)
		for k, v := range row {
			stored[k] = v
		}
		stored["id"] = id

		vr.order = append(vr.order, id)
		vr.rows[id] = stored
		ids = append(ids, id)
	}
	return ids
}

func (d *dataStore) get(viewID, recordID string) (map[string]any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	vr, ok := d.rows[viewID]
	if !ok {
		return nil, false
	}
	row, ok := vr.rows[recordID]
	if !ok {
		return nil, false
	}

	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out, true
}

type viewCtxKey struct{}

// knownView answers 404 for view ids the server does not know.
func (s *Server) knownView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := s.data.view(chi.URLParam(r, "viewID"))
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "view not found")
			return
		}
		ctx := context.WithValue(r.Context(), viewCtxKey{}, v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func viewFrom(r *http.Request) View {
	v, _ := r.Context().Value(viewCtxKey{}).(View)
	return v
}

func (s *Server) listApps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "CRM"}})
}

func (s *Server) listViews(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.data.views)
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewFrom(r))
}

func (s *Server) findRecords(w http.ResponseWriter, r *http.Request) {
	start, limit, err := page(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	q := strings.ToLower(r.URL.Query().Get("q"))

	s.data.mu.Lock()
	vr := s.data.rows[viewFrom(r).ID]
	matched := make([]map[string]any, 0, len(vr.order))
	for _, id := range vr.order {
		row := vr.rows[id]
		if q == "" || rowMatches(row, q) {
			matched = append(matched, row)
		}
	}
	s.data.mu.Unlock()

	total := len(matched)
	matched = window(matched, start, limit)

	writeJSON(w, http.StatusOK, map[string]any{
		"structure":  []any{},
		"data":       matched,
		"totalCount": total,
	})
}

func rowMatches(row map[string]any, q string) bool {
	for _, v := range row {
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), q) {
			return true
		}
	}
	return false
}

func (s *Server) createRecords(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Data) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be {\"data\": ...}")
		return
	}

	var rows []map[string]any
	if err := json.Unmarshal(body.Data, &rows); err != nil {
		var row map[string]any
		if err := json.Unmarshal(body.Data, &row); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "data must be an object or a list of objects")
			return
		}
		rows = []map[string]any{row}
	}

	viewID := viewFrom(r).ID
	ids := s.SeedRecords(viewID, rows...)

	created := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		row, _ := s.data.get(viewID, id)
		created = append(created, row)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"structure":  []any{},
		"data":       created,
		"totalCount": len(created),
	})
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	row, ok := s.data.get(viewFrom(r).ID, chi.URLParam(r, "recordID"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": row})
}

func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	viewID, recordID := viewFrom(r).ID, chi.URLParam(r, "recordID")

	s.data.mu.Lock()
	row, ok := s.data.rows[viewID].rows[recordID]
	if ok {
		for k, v := range body.Data {
			if k != "id" {
				row[k] = v
			}
		}
	}
	s.data.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{row}})
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	viewID, recordID := viewFrom(r).ID, chi.URLParam(r, "recordID")

	s.data.mu.Lock()
	vr := s.data.rows[viewID]
	_, ok := vr.rows[recordID]
	if ok {
		delete(vr.rows, recordID)
		for i, id := range vr.order {
			if id == recordID {
				vr.order = append(vr.order[:i], vr.order[i+1:]...)
				break
			}
		}
		for key := range s.data.files {
			if strings.HasPrefix(key, viewID+"/"+recordID+"/") {
				delete(s.data.files, key)
			}
		}
	}
	s.data.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func fileKey(r *http.Request) string {
	return viewFrom(r).ID + "/" + chi.URLParam(r, "recordID") + "/" + chi.URLParam(r, "field")
}

func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	f, ok := s.data.files[fileKey(r)]
	s.data.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "file not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.content)
}

func (s *Server) attachFile(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.data.get(viewFrom(r).ID, chi.URLParam(r, "recordID")); !ok {
		writeError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart field \"file\" is required")
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	s.data.mu.Lock()
	s.data.files[fileKey(r)] = storedFile{name: header.Filename, content: content}
	s.data.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"field":    chi.URLParam(r, "field"),
		"fileName": header.Filename,
		"size":     len(content),
	})
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	key := fileKey(r)

	s.data.mu.Lock()
	_, ok := s.data.files[key]
	delete(s.data.files, key)
	s.data.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "file not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	start, limit, err := page(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	s.data.mu.Lock()
	users := make([]map[string]any, len(s.data.users))
	copy(users, s.data.users)
	s.data.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       window(users, start, limit),
		"totalCount": len(users),
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("email") == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	user := map[string]any{
		"email":     q.Get("email"),
		"firstName": q.Get("firstName"),
		"lastName":  q.Get("lastName"),
		"timeZone":  q.Get("timeZone"),
	}

	s.data.mu.Lock()
	for _, u := range s.data.users {
		if u["email"] == user["email"] {
			s.data.mu.Unlock()
			writeError(w, http.StatusConflict, "conflict", "user already exists")
			return
		}
	}
	s.data.users = append(s.data.users, user)
	s.data.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"data": []map[string]any{user}})
}

// page reads the start and max query parameters, defaulting to 0 and 50.
func page(r *http.Request) (start, limit int, err error) {
	start, limit = 0, 50
	q := r.URL.Query()

	if v := q.Get("start"); v != "" {
		if start, err = strconv.Atoi(v); err != nil || start < 0 {
			return 0, 0, fmt.Errorf("invalid start %q", v)
		}
	}
	if v := q.Get("max"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("invalid max %q", v)
		}
	}
	return start, limit, nil
}

func window[T any](items []T, start, limit int) []T {
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}
