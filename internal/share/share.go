// Package share builds referral links and hands them to the platform.
package share

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultBase is the bot link referrals point at.
const DefaultBase = "https://t.me/SkyDragonVPNBot"

const shareEndpoint = "https://t.me/share/url"

var ErrMissingUser = errors.New("user id required")

// LinkBuilder builds referral links of the form <Base>?start=<userID>.
type LinkBuilder struct {
	Base string
}

// Link returns the referral link for userID.
func (b LinkBuilder) Link(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrMissingUser
	}
	base := b.Base
	if base == "" {
		base = DefaultBase
	}
	return base + "?start=" + url.QueryEscape(userID), nil
}

// ShareURL wraps link in a messenger share URL with an invitation text.
func ShareURL(link, text string) string {
	v := url.Values{}
	v.Set("url", link)
	if text != "" {
		v.Set("text", text)
	}
	return shareEndpoint + "?" + v.Encode()
}

// Sharer hands a link to the host platform. Sharing is fire-and-forget:
// callers log failures and never change session state because of them.
type Sharer interface {
	Share(link string) error
}

// ClipboardSharer copies links to the system clipboard.
type ClipboardSharer struct {
	Logger *slog.Logger
}

// Share copies link to the clipboard.
func (s ClipboardSharer) Share(link string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard unsupported on this platform")
	}
	if err := clipboard.WriteAll(link); err != nil {
		return fmt.Errorf("copy link: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Debug("Referral link copied", "link", link)
	}
	return nil
}

// QRCode renders link as a terminal QR code made of block characters.
func QRCode(link string) (string, error) {
	code, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("qr code: %w", err)
	}
	return code.ToSmallString(false), nil
}
