package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:SECRET-TOKEN"

type recorded struct {
	path string
	form url.Values
}

func newBotAPI(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		calls = append(calls, recorded{path: r.URL.Path, form: r.PostForm})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, testToken, time.Second), &calls
}

func writeOK(w http.ResponseWriter, result interface{}) {
	raw, _ := json.Marshal(result)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": json.RawMessage(raw)})
}

func apiPath(method string) string {
	return "/bot" + testToken + "/" + method
}

func TestSendMessageWithInlineKeyboard(t *testing.T) {
	client, calls := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, tgbotapi.Message{MessageID: 55, Chat: &tgbotapi.Chat{ID: 9}})
	})

	markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("COMINO", "company:comino"),
	))
	msg, err := client.SendMessage(context.Background(), 9, "Scegli", markup)

	require.NoError(t, err)
	assert.Equal(t, 55, msg.MessageID)
	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, apiPath("sendMessage"), call.path)
	assert.Equal(t, "9", call.form.Get("chat_id"))
	assert.Equal(t, "Scegli", call.form.Get("text"))

	var sent tgbotapi.InlineKeyboardMarkup
	require.NoError(t, json.Unmarshal([]byte(call.form.Get("reply_markup")), &sent))
	require.Len(t, sent.InlineKeyboard, 1)
	assert.Equal(t, "company:comino", *sent.InlineKeyboard[0][0].CallbackData)
}

func TestAPIErrorIsReturned(t *testing.T) {
	client, calls := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: query is too old"}`))
	})

	err := client.AnswerCallbackQuery(context.Background(), "cb", "")

	var apiErr *tgbotapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "cb", (*calls)[0].form.Get("callback_query_id"))
}

func TestRemoveInlineKeyboardIsIdempotent(t *testing.T) {
	client, calls := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`))
	})

	err := client.RemoveInlineKeyboard(context.Background(), 9, 77)

	assert.NoError(t, err)
	require.Len(t, *calls, 1)
	assert.Equal(t, apiPath("editMessageReplyMarkup"), (*calls)[0].path)
	assert.Equal(t, "77", (*calls)[0].form.Get("message_id"))
	assert.JSONEq(t, `{"inline_keyboard":[]}`, (*calls)[0].form.Get("reply_markup"))
}

func TestGetWebhookInfo(t *testing.T) {
	client, calls := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, tgbotapi.WebhookInfo{URL: "https://bot.example/telegram/webhook", PendingUpdateCount: 2})
	})

	info, err := client.GetWebhookInfo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, info.PendingUpdateCount)
	assert.Equal(t, apiPath("getWebhookInfo"), (*calls)[0].path)
}

func TestFetchPhoto(t *testing.T) {
	client, calls := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case apiPath("getFile"):
			writeOK(w, tgbotapi.File{FileID: r.PostForm.Get("file_id"), FilePath: "photos/file_12.jpg"})
		case "/file/bot" + testToken + "/photos/file_12.jpg":
			_, _ = w.Write([]byte("jpeg-bytes"))
		default:
			http.NotFound(w, r)
		}
	})

	p, err := client.FetchPhoto(context.Background(), "AgAD-file")

	require.NoError(t, err)
	assert.Equal(t, "file_12.jpg", p.Name)
	assert.Equal(t, []byte("jpeg-bytes"), p.Data)
	require.Len(t, *calls, 2)
	assert.Equal(t, "AgAD-file", (*calls)[0].form.Get("file_id"))
}

func TestDownloadFileFailsOnStatus(t *testing.T) {
	client, _ := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.DownloadFile(context.Background(), "photos/missing.jpg")

	assert.ErrorContains(t, err, "status 404")
}

func TestDownloadFileRejectsOversizedBody(t *testing.T) {
	client, _ := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{0xff}, MaxDownloadSize+1))
	})

	_, err := client.DownloadFile(context.Background(), "photos/huge.jpg")

	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestTransportErrorsDoNotLeakToken(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	client := NewClient(fmt.Sprintf("http://%s", addr), testToken, time.Second)
	ctx := context.Background()

	_, sendErr := client.SendMessage(ctx, 9, "ciao", nil)
	_, fileErr := client.FetchPhoto(ctx, "AgAD-file")
	_, downloadErr := client.DownloadFile(ctx, "photos/file_12.jpg")
	_, infoErr := client.GetWebhookInfo(ctx)

	for _, err := range []error{sendErr, fileErr, downloadErr, infoErr} {
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "SECRET-TOKEN")
		assert.Contains(t, err.Error(), redactedToken)
	}
}

func TestCancelledContextAbortsRequest(t *testing.T) {
	client, calls := newBotAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, true)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.AnswerCallbackQuery(ctx, "cb", "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *calls)
}
