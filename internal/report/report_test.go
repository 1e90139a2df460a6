package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trop3n/samc/internal/report"
)

func newTestClient(t *testing.T, handler http.Handler) *report.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := report.NewClient(report.Config{
		BaseURL:      srv.URL,
		ClientID:     "client",
		ClientSecret: "secret",
	})
	require.NoError(t, err)
	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := report.NewClient(report.Config{ClientID: "c", ClientSecret: "s"})
	assert.Error(t, err, "base URL is required")

	_, err = report.NewClient(report.Config{BaseURL: "https://example.com"})
	assert.Error(t, err, "credentials are required")
}

func TestToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/connect/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
	}))

	token, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestTokenRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))

	_, err := client.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFetchRows(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tables/events", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "Event_Title,Event_Start_Date", q.Get("$select"))
		assert.Equal(t, "Cancelled eq false", q.Get("$filter"))
		assert.Equal(t, "Event_Start_Date asc", q.Get("$orderby"))

		fmt.Fprint(w, `[
			{"Event_Title":"Sunday Service","Event_Start_Date":"2024-03-10","Attendance":120},
			{"Event_Title":"Bible Study","Event_Start_Date":"2024-03-12"}
		]`)
	}))

	rows, err := client.FetchRows(context.Background(), "tok-123", report.Query{
		Table:   "events",
		Select:  []string{"Event_Title", "Event_Start_Date"},
		Filter:  "Cancelled eq false",
		OrderBy: "Event_Start_Date asc",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sunday Service", rows[0]["Event_Title"])
}

func TestFetchRowsRequiresTable(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())
	_, err := client.FetchRows(context.Background(), "tok", report.Query{})
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	rows := []report.Row{
		{"Event_Title": "Sunday Service", "Event_Start_Date": "2024-03-10", "Attendance": float64(120)},
		{"Event_Title": "Bible Study"}, // missing column renders empty
	}

	var buf bytes.Buffer
	err := report.WriteCSV(&buf, []string{"Event_Title", "Event_Start_Date", "Attendance"}, rows)
	require.NoError(t, err)

	want := "Event_Title,Event_Start_Date,Attendance\n" +
		"Sunday Service,2024-03-10,120\n" +
		"Bible Study,,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVNoColumns(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteCSV(&buf, nil, nil)
	assert.Error(t, err)
}
