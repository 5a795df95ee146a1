package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fishfarm/internal/domain/models"
	client "github.com/mamadbah2/fishfarm/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent   []client.SendTextMessageRequest
	failAt int
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	f.sent = append(f.sent, req)
	if f.failAt > 0 && len(f.sent) == f.failAt {
		return nil, errors.New("boom")
	}
	return &client.SendTextMessageResponse{}, nil
}

func TestSendOutbound(t *testing.T) {
	fc := &fakeClient{}
	n := NewWhatsAppNotifier(fc, nil)

	err := n.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "224600", Message: "feed plan"})
	require.NoError(t, err)
	require.Len(t, fc.sent, 1)
	assert.Equal(t, "224600", fc.sent[0].To)
	assert.Equal(t, "feed plan", fc.sent[0].Body)
}

func TestSendOutboundSplitsLongMessages(t *testing.T) {
	fc := &fakeClient{}
	n := NewWhatsAppNotifier(fc, nil)

	line := strings.Repeat("x", 1000) + "\n"
	err := n.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Message: strings.Repeat(line, 9)})
	require.NoError(t, err)
	assert.Len(t, fc.sent, 3)
	for _, req := range fc.sent {
		assert.LessOrEqual(t, len(req.Body), client.MaxTextLength)
	}
}

func TestSendOutboundStopsOnError(t *testing.T) {
	fc := &fakeClient{failAt: 1}
	n := NewWhatsAppNotifier(fc, nil)

	line := strings.Repeat("x", 3000) + "\n"
	err := n.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Message: line + line})
	assert.Error(t, err)
	assert.Len(t, fc.sent, 1)
}

func TestSendOutboundRequiresRecipient(t *testing.T) {
	fc := &fakeClient{}
	err := NewWhatsAppNotifier(fc, nil).SendOutbound(context.Background(), models.OutboundMessageRequest{Message: "hi"})
	assert.Error(t, err)
	assert.Empty(t, fc.sent)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier(nil).SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Message: "hi"}))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))
	assert.Equal(t, []string{"aaaa", "bbbb"}, SplitMessage("aaaa\nbbbb", 6))
	assert.Equal(t, []string{"abcde", "fgh"}, SplitMessage("abcdefgh", 5))

	// never cuts inside a multi-byte rune
	parts := SplitMessage("ééé", 3)
	assert.Equal(t, []string{"é", "é", "é"}, parts)

	// a limit below the rune size still makes progress
	assert.Equal(t, []string{"é", "é"}, SplitMessage("éé", 1))
	assert.Equal(t, []string{"a", "€", "b"}, SplitMessage("a€b", 2))
}
