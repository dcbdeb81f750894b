package callmebot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestCleanPhoneNumber(t *testing.T) {
	cleaned, err := CleanPhoneNumber("+256 (700) 123-456")
	require.NoError(t, err)
	require.Equal(t, "256700123456", cleaned)

	_, err = CleanPhoneNumber("12345")
	require.Error(t, err)

	_, err = CleanPhoneNumber("abc-def")
	require.Error(t, err)
}

func TestCheckMessage(t *testing.T) {
	_, err := CheckMessage("   ")
	require.Error(t, err)

	check, err := CheckMessage("reminder text")
	require.NoError(t, err)
	require.False(t, check.TooLong)
	require.Equal(t, len("reminder text"), check.Length)

	long := strings.Repeat("x", MaxMessageLength+10)
	check, err = CheckMessage(long)
	require.NoError(t, err)
	require.True(t, check.TooLong)
	require.Len(t, check.Preview, MaxMessageLength)
	require.True(t, strings.HasSuffix(check.Preview, "..."))
}

func TestCheckMessagePreviewRuneBoundary(t *testing.T) {
	// A 4-byte emoji straddles the preview cut point.
	long := strings.Repeat("a", MaxMessageLength-4) + strings.Repeat("🔴", 3)

	check, err := CheckMessage(long)
	require.NoError(t, err)
	require.True(t, check.TooLong)
	require.True(t, utf8.ValidString(check.Preview))
	require.True(t, strings.HasSuffix(check.Preview, "..."))
	require.LessOrEqual(t, len(check.Preview), MaxMessageLength)
}

func TestSendWhatsApp(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"phone":  q.Get("phone"),
			"text":   q.Get("text"),
			"apikey": q.Get("apikey"),
		}
		w.Write([]byte("Message queued"))
	}))
	defer srv.Close()

	client := New(srv.URL)
	reply, err := client.SendWhatsApp(context.Background(), "+1 (234) 567-8901", "hello", "key123")
	require.NoError(t, err)
	require.Equal(t, "Message queued", reply)
	require.Equal(t, "12345678901", gotQuery["phone"])
	require.Equal(t, "hello", gotQuery["text"])
	require.Equal(t, "key123", gotQuery["apikey"])
}

func TestSendWhatsAppGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"APIKey is invalid"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.SendWhatsApp(context.Background(), "12345678901", "hello", "bad")
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
	require.Contains(t, err.Error(), "APIKey is invalid")
}

func TestSendWhatsAppMissingKey(t *testing.T) {
	client := New("http://unused.invalid")
	_, err := client.SendWhatsApp(context.Background(), "12345678901", "hello", "")
	require.Error(t, err)
}

func TestSendBatchMiddleFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := New(srv.URL)
	client.batchDelay = 0 // no pacing in tests

	report := client.SendBatch(context.Background(), []BatchMessage{
		{PhoneNumber: "11111111111", Message: "a", APIKey: "k"},
		{PhoneNumber: "22222222222", Message: "b", APIKey: "k"},
		{PhoneNumber: "33333333333", Message: "c", APIKey: "k"},
	})

	require.Equal(t, 3, report.Total)
	require.Equal(t, 2, report.Successful)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, 3, calls) // the failure did not abort the batch
	require.True(t, report.Results[0].Success)
	require.False(t, report.Results[1].Success)
	require.True(t, report.Results[2].Success)
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	client := New(srv.URL)
	require.NoError(t, client.Status(context.Background()))
	srv.Close()

	require.Error(t, client.Status(context.Background()))
}
