package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	DefaultBaseURL = "https://api.telegram.org"

	// MaxDownloadSize is the Bot API limit for getFile downloads.
	MaxDownloadSize = 20 << 20

	redactedToken = "<token>"
)

var ErrFileTooLarge = errors.New("telegram file exceeds download limit")

// Photo is a downloaded picture ready to be attached to a report.
type Photo struct {
	Name string
	Data []byte
}

// doer binds a request context and scrubs the bot token out of transport
// errors, which otherwise quote the full request URL.
type doer struct {
	ctx   context.Context
	http  *http.Client
	token string
}

func (d doer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.http.Do(req.WithContext(d.ctx))
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && d.token != "" {
			urlErr.URL = strings.ReplaceAll(urlErr.URL, d.token, redactedToken)
		}
		return nil, err
	}
	return resp, nil
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	bot     tgbotapi.BotAPI
}

// NewClient builds the client without calling getMe, so the service starts
// even while Telegram is unreachable.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		bot:     tgbotapi.BotAPI{Token: token, Buffer: 100},
	}
	c.bot.SetAPIEndpoint(baseURL + "/bot%s/%s")
	return c
}

// api returns a copy of the bot bound to ctx.
func (c *Client) api(ctx context.Context) *tgbotapi.BotAPI {
	bot := c.bot
	bot.Client = doer{ctx: ctx, http: c.http, token: c.token}
	return &bot
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyMarkup interface{}) (*tgbotapi.Message, error) {
	cfg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		cfg.ReplyMarkup = replyMarkup
	}
	msg, err := c.api(ctx).Send(cfg)
	if err != nil {
		return nil, fmt.Errorf("telegram sendMessage: %w", err)
	}
	return &msg, nil
}

// AnswerCallbackQuery stops the loading state of an inline button; text,
// when set, is shown as a toast.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	if _, err := c.api(ctx).Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("telegram answerCallbackQuery: %w", err)
	}
	return nil
}

// RemoveInlineKeyboard clears the buttons of a sent message. Clearing an
// already cleared keyboard is not an error.
func (c *Client) RemoveInlineKeyboard(ctx context.Context, chatID, messageID int64) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, int(messageID), tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	_, err := c.api(ctx).Request(edit)
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "message is not modified") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("telegram editMessageReplyMarkup: %w", err)
	}
	return nil
}

func (c *Client) GetWebhookInfo(ctx context.Context) (*tgbotapi.WebhookInfo, error) {
	info, err := c.api(ctx).GetWebhookInfo()
	if err != nil {
		return nil, fmt.Errorf("telegram getWebhookInfo: %w", err)
	}
	return &info, nil
}

func (c *Client) GetFile(ctx context.Context, fileID string) (*tgbotapi.File, error) {
	file, err := c.api(ctx).GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("telegram getFile: %w", err)
	}
	return &file, nil
}

// DownloadFile fetches a file resolved by GetFile. File.Link always points
// at api.telegram.org, so the URL is built from the configured base.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	link := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, strings.TrimLeft(filePath, "/"))
	req, err := http.NewRequest(http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: build request failed", filePath)
	}
	resp, err := doer{ctx: ctx, http: c.http, token: c.token}.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", filePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", filePath, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", filePath, err)
	}
	if len(data) > MaxDownloadSize {
		return nil, fmt.Errorf("download %s: %w", filePath, ErrFileTooLarge)
	}
	return data, nil
}

// FetchPhoto resolves a file id and downloads the picture behind it.
func (c *Client) FetchPhoto(ctx context.Context, fileID string) (*Photo, error) {
	file, err := c.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("telegram getFile %s: empty file_path", fileID)
	}
	data, err := c.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return nil, err
	}
	return &Photo{Name: path.Base(file.FilePath), Data: data}, nil
}
