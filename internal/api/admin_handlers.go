package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bistro/internal/models"
	"bistro/internal/service"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, admin, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, errInvalidCredentials.Error())
			return
		}
		s.serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"admin": admin,
	})
}

func (s *Server) handleAdminMe(w http.ResponseWriter, r *http.Request) {
	admin := adminFromContext(r.Context())
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

func (s *Server) handleAdminListReservations(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))

	if from == "" && to == "" {
		reservations, err := s.reservations.ListReservations(r.Context())
		if err != nil {
			s.serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
		return
	}

	start, end, err := parseDateRange(from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reservations, err := s.reservations.ListReservationsByDateRange(r.Context(), start, end)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

func (s *Server) handleAdminExportReservations(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))

	// Default to the next 30 days when no range is given.
	start := time.Now().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 30)
	if from != "" || to != "" {
		var err error
		start, end, err = parseDateRange(from, to)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	path, err := s.exporter.ReservationsToExcel(r.Context(), start, end)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

func (s *Server) handleAdminCancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := idPathValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.reservations.CancelReservation(r.Context(), id); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.ReservationCancelled})
}

func (s *Server) handleAdminGetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.schedule.GetSchedule(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) handleAdminUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req service.Schedule
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.schedule.UpdateSchedule(r.Context(), req.Hours, req.Config); err != nil {
		s.serviceError(w, err)
		return
	}

	schedule, err := s.schedule.GetSchedule(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// Menu categories.

func (s *Server) handleAdminListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.content.ListCategories(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleAdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var category models.MenuCategory
	if err := decodeJSON(r, &category); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.content.CreateCategory(r.Context(), &category); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleAdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idPathValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var category models.MenuCategory
	if err := decodeJSON(r, &category); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	category.ID = id

	if err := s.content.UpdateCategory(r.Context(), &category); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleAdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idPathValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.content.DeleteCategory(r.Context(), id); err != nil {
		s.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Menu items. Create and update accept either JSON or multipart form
// data with an optional "image" file.

func (s *Server) handleAdminListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.content.ListMenuItems(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleAdminCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.parseMenuItemRequest(r, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.content.CreateMenuItem(r.Context(), item); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleAdminUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := idPathValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.content.GetMenuItem(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	item, err := s.parseMenuItemRequest(r, existing)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item.ID = id

	if err := s.content.UpdateMenuItem(r.Context(), item); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleAdminDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := idPathValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.content.DeleteMenuItem(r.Context(), id); err != nil {
		s.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Blog posts.

func (s *Server) handleAdminListBlogs(w http.ResponseWriter, r *http.Request) {
	posts, err := s.content.ListPosts(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (s *Server) handleAdminGetBlog(w http.ResponseWriter, r *http.Request) {
	id, err := idPathValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := s.content.GetPost(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleAdminCreateBlog(w http.ResponseWriter, r *http.Request) {
	post, err := s.parseBlogRequest(r, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.content.CreatePost(r.Context(), post); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleAdminUpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := idPathValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.content.GetPost(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	post, err := s.parseBlogRequest(r, existing)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	post.ID = id

	if err := s.content.UpdatePost(r.Context(), post); err != nil {
		s.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleAdminDeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := idPathValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.content.DeletePost(r.Context(), id); err != nil {
		s.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Request parsing helpers.

func (s *Server) parseMenuItemRequest(r *http.Request, existing *models.MenuItem) (*models.MenuItem, error) {
	item := &models.MenuItem{Available: true}
	if existing != nil {
		copied := *existing
		item = &copied
	}

	if !isMultipart(r) {
		if err := decodeJSON(r, item); err != nil {
			return nil, fmt.Errorf("invalid JSON body")
		}
		return item, nil
	}

	maxBytes := int64(s.cfg.Uploads.MenuImageMaxMB) << 20
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart form: image must be under %dMB", s.cfg.Uploads.MenuImageMaxMB)
	}

	if v := r.FormValue("name"); v != "" {
		item.Name = v
	}
	if v := r.FormValue("description"); v != "" {
		item.Description = v
	}
	if v := r.FormValue("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid categoryId")
		}
		item.CategoryID = id
	}
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price")
		}
		item.Price = price
	}
	if v := r.FormValue("available"); v != "" {
		item.Available = v == "true" || v == "1"
	}
	if v := r.FormValue("sortOrder"); v != "" {
		order, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid sortOrder")
		}
		item.SortOrder = order
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		url, err := s.saveUpload(file, header, "menu", maxBytes)
		if err != nil {
			return nil, err
		}
		item.ImageURL = url
	}

	return item, nil
}

func (s *Server) parseBlogRequest(r *http.Request, existing *models.BlogPost) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	if existing != nil {
		copied := *existing
		post = &copied
	}

	if !isMultipart(r) {
		if err := decodeJSON(r, post); err != nil {
			return nil, fmt.Errorf("invalid JSON body")
		}
		return post, nil
	}

	maxBytes := int64(s.cfg.Uploads.BlogCoverMaxMB) << 20
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("invalid multipart form: cover must be under %dMB", s.cfg.Uploads.BlogCoverMaxMB)
	}

	if v := r.FormValue("title"); v != "" {
		post.Title = v
	}
	if v := r.FormValue("slug"); v != "" {
		post.Slug = v
	}
	if v := r.FormValue("excerpt"); v != "" {
		post.Excerpt = v
	}
	if v := r.FormValue("content"); v != "" {
		post.Content = v
	}
	if v := r.FormValue("status"); v != "" {
		post.Status = v
	}
	if v := r.FormValue("removeCover"); v == "true" || v == "1" {
		post.CoverImage = ""
	}

	if file, header, err := r.FormFile("cover"); err == nil {
		defer file.Close()
		url, err := s.saveUpload(file, header, "blog", maxBytes)
		if err != nil {
			return nil, err
		}
		post.CoverImage = url
	}

	return post, nil
}

// saveUpload writes an uploaded file under the uploads dir with a
// random name, keeping the original extension. Returns the public URL.
func (s *Server) saveUpload(file multipart.File, header *multipart.FileHeader, subdir string, maxBytes int64) (string, error) {
	if header.Size > maxBytes {
		return "", fmt.Errorf("file too large: max %dMB", maxBytes>>20)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	dir := filepath.Join(s.cfg.Uploads.Path, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxBytes)); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return "/uploads/" + subdir + "/" + name, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func idPathValue(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

// parseDateRange accepts open-ended ranges: a missing bound falls back
// to the earliest/latest representable date, which sorts correctly
// against the TEXT date column.
func parseDateRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	var err error
	if from != "" {
		start, err = time.Parse(dateLayout, from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date, expected YYYY-MM-DD")
		}
	}
	if to != "" {
		end, err = time.Parse(dateLayout, to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date, expected YYYY-MM-DD")
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return start, end, nil
}
