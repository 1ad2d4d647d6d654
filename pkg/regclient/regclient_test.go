package regclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		FirstName:     "Alice",
		LastName:      "Doe",
		Email:         "alice@example.com",
		IDType:        IDTypePassport,
		IDNumber:      "P123456789",
		GroupCount:    1,
		PhotoFilename: "photo.png",
		Photo:         strings.NewReader("png-bytes"),
	}
}

func TestCheckEventActive(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/event/check/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"event":{"id":7,"is_active":true}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.Equal(t, GateActive, c.CheckEvent(context.Background(), "7"))
	assert.Equal(t, int64(1), requests.Load())
}

func TestCheckEventFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"event":{"id":7,"is_active":false}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.Equal(t, GateInactive, c.CheckEvent(context.Background(), "7"))
}

func TestCheckEventServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.Equal(t, GateInactive, c.CheckEvent(context.Background(), "7"))
}

func TestCheckEventUnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1")
	assert.Equal(t, GateInactive, c.CheckEvent(context.Background(), "7"))
}

func TestCheckEventMalformedIDSkipsNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	for _, id := range []string{"abc", "0", "-3", "", "1.5"} {
		assert.Equal(t, GateInactive, c.CheckEvent(context.Background(), id), id)
	}
	assert.Equal(t, int64(0), requests.Load())
}

func TestValidateGuardOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		msg    string
	}{
		{"no photo", func(f *Form) { f.Photo = nil }, "Please upload a valid profile photo."},
		{"bad extension", func(f *Form) { f.PhotoFilename = "resume.pdf" }, "Please upload a valid profile photo."},
		{"bad id type", func(f *Form) { f.IDType = "licence" }, "Please select a valid ID type"},
		{"short aadhar", func(f *Form) { f.IDType = IDTypeAadhar; f.IDNumber = "12345" }, "Please enter a valid ID number"},
		{"aadhar letters", func(f *Form) { f.IDType = IDTypeAadhar; f.IDNumber = "12345678901a" }, "Please enter a valid ID number"},
		{"short passport", func(f *Form) { f.IDNumber = "P1234" }, "Please enter a valid ID number"},
		{"blank college id", func(f *Form) { f.IDType = IDTypeCollegeID; f.IDNumber = "  " }, "Please enter a valid ID number"},
		{"blank other id", func(f *Form) { f.IDType = IDTypeOther; f.IDNumber = "" }, "Please enter a valid ID number"},
		{"blank first name", func(f *Form) { f.FirstName = "   " }, "Please enter a valid first name"},
		{"bad email", func(f *Form) { f.Email = "not-an-email" }, "Please enter a valid email"},
		{"solo group", func(f *Form) { f.IsGroup = true; f.GroupCount = 1 }, "Group size must be at least 2 people"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			err := f.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestValidateAcceptsAllIDTypes(t *testing.T) {
	tests := []struct {
		idType string
		number string
	}{
		{IDTypeAadhar, "123456789012"},
		{IDTypePassport, "P123456789"},
		{IDTypeCollegeID, "CS-2024-117"},
		{IDTypeOther, "voter card 44"},
	}
	for _, tt := range tests {
		t.Run(tt.idType, func(t *testing.T) {
			f := validForm()
			f.IDType = tt.idType
			f.IDNumber = tt.number
			assert.NoError(t, f.Validate())
		})
	}
}

func TestValidateOrderPhotoBeatsEverything(t *testing.T) {
	f := validForm()
	f.Photo = nil
	f.IDType = "bogus"
	f.Email = "bad"

	err := f.Validate()
	require.Error(t, err)
	assert.Equal(t, "Please upload a valid profile photo.", err.Error())
}

func TestNameJoining(t *testing.T) {
	f := validForm()
	assert.Equal(t, "Alice Doe", f.Name())

	f.LastName = ""
	assert.Equal(t, "Alice", f.Name())
}

func TestSubmitSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "/tourists/register", r.URL.Path)
		assert.Equal(t, "Alice Doe", r.FormValue("name"))
		assert.Equal(t, "alice@example.com", r.FormValue("email"))
		assert.Equal(t, "7", r.FormValue("registered_event_id"))
		assert.Equal(t, "passport", r.FormValue("unique_id_type"))
		assert.Equal(t, "P123456789", r.FormValue("unique_id"))
		assert.Equal(t, "1", r.FormValue("group_count"))

		_, _, err := r.FormFile("image")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Tourist registered successfully","tourist":{"id":"t-1"},"visitor_card_url":"/tourists/visitor-card/tok123"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Submit(context.Background(), "7", validForm())
	require.NoError(t, err)
	assert.Equal(t, "Tourist registered successfully", result.Message)
	require.NotNil(t, result.VisitorCardURL)
	assert.Equal(t, "/tourists/visitor-card/tok123", *result.VisitorCardURL)
}

func TestSubmitSurfacesServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"conflict","detail":"User with this email is already registered for the event"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Submit(context.Background(), "7", validForm())
	require.Error(t, err)
	assert.Equal(t, "User with this email is already registered for the event", err.Error())
}

func TestSubmitFallsBackToMessageThenGeneric(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message only", `{"message":"Something broke"}`, "Something broke"},
		{"empty body", ``, "Registration failed"},
		{"non-json", `<html>502</html>`, "Registration failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL)
			_, err := c.Submit(context.Background(), "7", validForm())
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestSubmitInvalidFormSkipsNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	f := validForm()
	f.Email = "nope"
	_, err := c.Submit(context.Background(), "7", f)
	require.Error(t, err)
	assert.Equal(t, int64(0), requests.Load())
}

func TestSubmitSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "7", validForm())
		done <- err
	}()
	<-started

	_, err := c.Submit(context.Background(), "7", validForm())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestPreviewAndDownloadURL(t *testing.T) {
	c := New("http://api.example.com")

	assert.Equal(t, "http://api.example.com/tourists/visitor-card/tok",
		c.PreviewURL("/tourists/visitor-card/tok"))
	assert.Equal(t, "https://cdn.example.com/card.png",
		c.PreviewURL("https://cdn.example.com/card.png"))

	assert.Equal(t, "http://api.example.com/tourists/download-visitor-card/tok",
		c.DownloadURL("/tourists/visitor-card/tok"))
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tourists/download-visitor-card/tok", r.URL.Path)
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	data, err := c.Download(context.Background(), c.DownloadURL("/tourists/visitor-card/tok"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestDownloadExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Download(context.Background(), "/tourists/download-visitor-card/tok")
	assert.Error(t, err)
}
