package notify

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/models"
	client "github.com/mamadbah2/fishfarm/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// Notifier pushes short text notices to farm staff.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// WhatsAppNotifier delivers notices through the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client client.Client
	logger *zap.Logger
}

// NewWhatsAppNotifier wires a notifier on top of the API client.
func NewWhatsAppNotifier(c client.Client, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{client: c, logger: logger}
}

// SendOutbound sends the message, split into several texts when it is longer
// than the API accepts. It stops at the first failed part.
func (n *WhatsAppNotifier) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if strings.TrimSpace(req.To) == "" {
		return errors.New("notify: recipient must not be empty")
	}

	parts := SplitMessage(req.Message, client.MaxTextLength)
	for i, part := range parts {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
		_, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
			To:         req.To,
			Body:       part,
			PreviewURL: req.PreviewURL,
		})
		cancel()
		if err != nil {
			n.logger.Error("outbound message failed",
				zap.String("to", req.To),
				zap.Int("part", i+1),
				zap.Int("parts", len(parts)),
				zap.Error(err))
			return err
		}
	}

	n.logger.Info("outbound message sent", zap.String("to", req.To), zap.Int("parts", len(parts)))
	return nil
}

// LogNotifier only logs messages. It stands in when WhatsApp is not configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier returns a notifier that writes messages to the log.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// SendOutbound logs the message and never fails.
func (n *LogNotifier) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	n.logger.Warn("whatsapp disabled, message not delivered",
		zap.String("to", req.To),
		zap.String("message", req.Message))
	return nil
}

// SplitMessage cuts text into chunks of at most limit bytes, breaking on line
// boundaries when possible. A rune wider than limit becomes its own chunk.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit || limit <= 0 {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, strings.TrimSuffix(current.String(), "\n"))
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				// the limit is smaller than the first rune: emit it whole
				_, cut = utf8.DecodeRuneInString(line)
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			flush()
		}
		current.WriteString(line)
	}
	flush()

	return parts
}
