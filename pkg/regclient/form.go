package regclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	IDTypeAadhar    = "aadhar"
	IDTypePassport  = "passport"
	IDTypeCollegeID = "college_id"
	IDTypeOther     = "other"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	aadharPattern   = regexp.MustCompile(`^\d{12}$`)
	passportPattern = regexp.MustCompile(`^[A-Za-z0-9]{10}$`)
)

// Form is a registration form as the user filled it in. Validate runs the
// checks in the same order the UI surfaces them, stopping at the first
// failure.
type Form struct {
	FirstName  string
	LastName   string
	Email      string
	IDType     string
	IDNumber   string
	IsGroup    bool
	GroupCount int

	PhotoFilename string
	Photo         io.Reader
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Validate checks the form in display order and returns the first failure's
// user-facing message.
func (f Form) Validate() error {
	if f.Photo == nil || !imageExtensions[strings.ToLower(filepath.Ext(f.PhotoFilename))] {
		return errors.New("Please upload a valid profile photo.")
	}
	switch f.IDType {
	case IDTypeAadhar, IDTypePassport, IDTypeCollegeID, IDTypeOther:
	default:
		return errors.New("Please select a valid ID type")
	}
	if !f.validIDNumber() {
		return errors.New("Please enter a valid ID number")
	}
	if strings.TrimSpace(f.FirstName) == "" {
		return errors.New("Please enter a valid first name")
	}
	if !emailPattern.MatchString(strings.TrimSpace(f.Email)) {
		return errors.New("Please enter a valid email")
	}
	if f.IsGroup && f.GroupCount < 2 {
		return errors.New("Group size must be at least 2 people")
	}
	return nil
}

// validIDNumber enforces per-type formats: aadhar is 12 digits, passport is
// 10 alphanumerics. College IDs and other documents only need a value.
func (f Form) validIDNumber() bool {
	value := strings.TrimSpace(f.IDNumber)
	switch f.IDType {
	case IDTypeAadhar:
		return aadharPattern.MatchString(value)
	case IDTypePassport:
		return passportPattern.MatchString(value)
	default:
		return value != ""
	}
}

// Name joins first and last name the way the server expects.
func (f Form) Name() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// encode builds the multipart request body.
func (f Form) encode(eventID int64) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"registered_event_id": fmt.Sprintf("%d", eventID),
		"name":                f.Name(),
		"email":               strings.TrimSpace(f.Email),
		"unique_id_type":      f.IDType,
		"unique_id":           strings.TrimSpace(f.IDNumber),
		"is_group":            fmt.Sprintf("%t", f.IsGroup),
		"group_count":         fmt.Sprintf("%d", f.effectiveGroupCount()),
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("image", filepath.Base(f.PhotoFilename))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f.Photo); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (f Form) effectiveGroupCount() int {
	if !f.IsGroup {
		return 1
	}
	return f.GroupCount
}
