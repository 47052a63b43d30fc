package http

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portfolio-backend/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// Layout of the static directory.
const (
	resumeDir         = "resume"
	resumeFilename    = "resume.pdf"
	certificationsDir = "certifications"

	// CertificationsURL is the public path certification images are served from.
	CertificationsURL = "/static/certifications/"
)

// certificationTypes maps the listed image extensions to their media types.
var certificationTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// Certification is one entry of GET {prefix}/certifications.
type Certification struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// CertificationList is the body of GET {prefix}/certifications.
type CertificationList struct {
	Certifications []Certification `json:"certifications"`
	Total          int             `json:"total"`
}

// StaticHTTPHandler serves the resume download and certification images.
type StaticHTTPHandler struct {
	dir    string
	maxAge time.Duration
	logger logger.Logger
}

// NewStaticHTTPHandler serves files below dir.
func NewStaticHTTPHandler(dir string, maxAge time.Duration, log logger.Logger) *StaticHTTPHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &StaticHTTPHandler{dir: dir, maxAge: maxAge, logger: log}
}

// RegisterRoutes mounts the file routes under apiPrefix, plus the public
// /static paths that certification URLs point at.
func (h *StaticHTTPHandler) RegisterRoutes(app fiber.Router, apiPrefix string) {
	api := app.Group(apiPrefix)
	api.Get("/resume", h.Resume)
	api.Get("/static/resume/"+resumeFilename, h.Resume)
	api.Get("/certifications", h.Certifications)
	api.Get("/static/certifications/:filename", h.Certification)
	api.Get("/static/health", h.Health)

	app.Get("/static/resume/"+resumeFilename, h.Resume)
	app.Get(CertificationsURL+":filename", h.Certification)
}

// Resume handles the resume download as an attachment.
func (h *StaticHTTPHandler) Resume(c *fiber.Ctx) error {
	path := filepath.Join(h.dir, resumeDir, resumeFilename)

	found, err := isFile(path)
	if err != nil {
		h.logger.WithContext(c.UserContext()).Errorf("Error serving resume: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "An error occurred while serving the resume file")
	}
	if !found {
		return errorResponse(c, fiber.StatusNotFound, "Resume file not found")
	}

	if err := c.Download(path, resumeFilename); err != nil {
		h.logger.WithContext(c.UserContext()).Errorf("Error serving resume: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "An error occurred while serving the resume file")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return nil
}

// Certifications lists the certification images sorted by filename. A
// missing certifications directory lists nothing.
func (h *StaticHTTPHandler) Certifications(c *fiber.Ctx) error {
	entries, err := os.ReadDir(filepath.Join(h.dir, certificationsDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		h.logger.WithContext(c.UserContext()).Errorf("Error listing certifications: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "An error occurred while listing certifications")
	}

	// os.ReadDir returns entries sorted by filename.
	list := make([]Certification, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := certificationTypes[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		list = append(list, Certification{
			Filename: entry.Name(),
			URL:      CertificationsURL + entry.Name(),
		})
	}

	return c.JSON(CertificationList{Certifications: list, Total: len(list)})
}

// Certification serves one certification image.
func (h *StaticHTTPHandler) Certification(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("filename"))
	if err != nil || !ValidFilename(name) {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid filename")
	}
	path := filepath.Join(h.dir, certificationsDir, name)

	found, err := isFile(path)
	if err != nil {
		h.logger.WithContext(c.UserContext()).Errorf("Error serving certification %s: %v", name, err)
		return errorResponse(c, fiber.StatusInternalServerError, "An error occurred while serving the certification file")
	}
	if !found {
		return errorResponse(c, fiber.StatusNotFound, "Certification file not found")
	}

	if err := c.SendFile(path); err != nil {
		h.logger.WithContext(c.UserContext()).Errorf("Error serving certification %s: %v", name, err)
		return errorResponse(c, fiber.StatusInternalServerError, "An error occurred while serving the certification file")
	}
	c.Set(fiber.HeaderContentType, MediaType(name))
	c.Set(fiber.HeaderCacheControl, "max-age="+strconv.Itoa(int(h.maxAge.Seconds())))
	return nil
}

// Health handles GET {prefix}/static/health
func (h *StaticHTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "static_files",
	})
}

// ValidFilename reports whether name is a plain file name that stays inside
// its directory: no separators, no parent references and no hidden files.
func ValidFilename(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return filepath.Base(name) == name
}

// MediaType returns the content type served for a certification file.
func MediaType(name string) string {
	if t, ok := certificationTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return fiber.MIMEOctetStream
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	default:
		return info.Mode().IsRegular(), nil
	}
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
