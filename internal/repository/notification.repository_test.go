package repository

import (
	"context"
	"encoding/json"
	"errors"
	"etfgrid/internal/domain"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path string
	Body map[string]string
}

func newNotifyTestServer(t *testing.T, reply string) (*httptest.Server, *[]capturedRequest) {
	captured := []capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body := map[string]string{}
		json.Unmarshal(b, &body)
		captured = append(captured, capturedRequest{Path: r.URL.Path, Body: body})
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func Test_pushPlusRepositoryHandler_Send(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		server, captured := newNotifyTestServer(t, `{"code":200,"msg":"ok"}`)
		repo := NewPushPlusRepositoryWithURL("tok", server.URL)

		err := repo.Send(context.Background(), "ETF grid signal", "hello")
		require.NoError(t, err)
		require.Equal(t, "pushplus", repo.Channel())
		require.Equal(t, map[string]string{
			"token":    "tok",
			"title":    "ETF grid signal",
			"content":  "hello",
			"template": "txt",
		}, (*captured)[0].Body)
	})

	t.Run("rejected", func(t *testing.T) {
		server, _ := newNotifyTestServer(t, `{"code":900,"msg":"bad token"}`)
		err := NewPushPlusRepositoryWithURL("tok", server.URL).Send(context.Background(), "t", "b")
		require.True(t, errors.Is(err, domain.ErrDelivery))
	})
}

func Test_telegramRepositoryHandler_Send(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		server, captured := newNotifyTestServer(t, `{"ok":true}`)
		repo := NewTelegramRepositoryWithURL("123:abc", "42", server.URL+"/")

		require.NoError(t, repo.Send(context.Background(), "title", "body"))
		require.Equal(t, "/bot123:abc/sendMessage", (*captured)[0].Path)
		require.Equal(t, "42", (*captured)[0].Body["chat_id"])
		require.Equal(t, "title\n\nbody", (*captured)[0].Body["text"])
	})

	t.Run("rejected", func(t *testing.T) {
		server, _ := newNotifyTestServer(t, `{"ok":false,"description":"chat not found"}`)
		err := NewTelegramRepositoryWithURL("123:abc", "42", server.URL).Send(context.Background(), "t", "b")
		require.True(t, errors.Is(err, domain.ErrDelivery))
	})
}

type fakeSESClient struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSESClient) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

func Test_emailRepositoryHandler_Send(t *testing.T) {
	t.Run("sends text and escaped html", func(t *testing.T) {
		client := &fakeSESClient{}
		repo := &emailRepositoryHandler{sesClient: client, fromEmail: "grid@example.com", toEmail: "me@example.com"}

		require.NoError(t, repo.Send(context.Background(), "ETF grid signal", "a < b"))
		require.Len(t, client.inputs, 1)
		in := client.inputs[0]
		require.Equal(t, "grid@example.com", *in.FromEmailAddress)
		require.Equal(t, []string{"me@example.com"}, in.Destination.ToAddresses)
		require.Equal(t, "a < b", *in.Content.Simple.Body.Text.Data)
		require.Equal(t, "<pre>a &lt; b</pre>", *in.Content.Simple.Body.Html.Data)
	})

	t.Run("ses failure", func(t *testing.T) {
		repo := &emailRepositoryHandler{sesClient: &fakeSESClient{err: fmt.Errorf("throttled")}}
		err := repo.Send(context.Background(), "t", "b")
		require.True(t, errors.Is(err, domain.ErrDelivery))
	})
}
