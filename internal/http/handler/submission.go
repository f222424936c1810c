package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"theforum/internal/http/middleware"
	"theforum/internal/model"
	"theforum/internal/service"
)

const (
	answerFieldPrefix = "answer_"
	photosField       = "photos"
)

type promptsResponse struct {
	Prompts []promptItem `json:"prompts"`
}

type promptItem struct {
	Field  string `json:"field"`
	Prompt string `json:"prompt"`
}

// ListPrompts returns the fixed prompt set with the form field each answer goes in.
//
// @Summary List monthly prompts
// @Tags submissions
// @Produce json
// @Success 200 {object} promptsResponse
// @Router /prompts [get]
func ListPrompts(prompts model.PromptSet) fiber.Handler {
	res := promptsResponse{Prompts: make([]promptItem, 0, len(prompts))}
	for i, p := range prompts {
		res.Prompts = append(res.Prompts, promptItem{Field: answerField(i), Prompt: p})
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(res)
	}
}

// CreateSubmission accepts a multipart submission for the current month.
// Answers arrive as answer_<i> fields in prompt order; photos as repeated "photos" files.
//
// @Summary Submit this month's answers and photos
// @Tags submissions
// @Accept mpfd
// @Produce json
// @Param X-User-ID header string true "Authenticated user id"
// @Param X-User-Name header string false "Display name"
// @Param answer_0 formData string true "Answer to prompt 0"
// @Param photos formData file false "Photos in display order"
// @Success 201 {object} model.Submission
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /submissions [post]
func CreateSubmission(svc service.IntakeService, prompts model.PromptSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := middleware.IdentityFromCtx(c)
		if identity == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form expected")
		}

		photos, err := readPhotos(form.File[photosField])
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded photo")
		}

		draft := model.Draft{
			Answers: answersFromForm(form.Value, prompts),
			Photos:  photos,
		}
		sub, err := svc.Submit(c.UserContext(), identity, draft)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sub)
	}
}

func answerField(i int) string {
	return answerFieldPrefix + strconv.Itoa(i)
}

// answersFromForm maps answer_<i> fields to prompt texts. Fields that name no
// prompt are kept under their field name so validation reports them.
func answersFromForm(values map[string][]string, prompts model.PromptSet) map[string]string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.HasPrefix(k, answerFieldPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	answers := make(map[string]string, len(keys))
	for _, k := range keys {
		if len(values[k]) == 0 {
			continue
		}
		key := k
		if i, ok := promptIndex(strings.TrimPrefix(k, answerFieldPrefix), len(prompts)); ok {
			key = prompts[i]
		}
		answers[key] = values[k][0]
	}
	return answers
}

// promptIndex accepts only the canonical decimal form, so "01" or "+1" stay
// distinct fields and are reported as unexpected rather than aliasing "1".
func promptIndex(suffix string, n int) (int, bool) {
	i, err := strconv.Atoi(suffix)
	if err != nil || i < 0 || i >= n || strconv.Itoa(i) != suffix {
		return 0, false
	}
	return i, true
}

func readPhotos(files []*multipart.FileHeader) ([]model.PhotoBlob, error) {
	photos := make([]model.PhotoBlob, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		photos = append(photos, model.PhotoBlob{Name: fh.Filename, ContentType: ct, Data: data})
	}
	return photos, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
