package confirmation

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// State là trạng thái của một lần xác nhận one-time link
type State string

const (
	StateAwaitingToken   State = "awaiting_token"
	StateTokenPresented  State = "token_presented"
	StateVerified        State = "verified"
	StateRejected        State = "rejected"
	StateRoutedSetup     State = "routed_setup"
	StateRoutedDashboard State = "routed_dashboard"
)

// Terminal: mỗi terminal state có đúng một redirect target
func (s State) Terminal() bool {
	return s == StateRejected || s == StateRoutedSetup || s == StateRoutedDashboard
}

// Reason giải thích vì sao bị Rejected, dùng làm ?error= trên trang login
type Reason string

const (
	ReasonInvalidLink Reason = "invalid_link"
	ReasonAuthFailed  Reason = "auth_failed"
)

// Request là query của GET /auth/confirm
type Request struct {
	TokenHash string `form:"token_hash"`
	Type      string `form:"type"`
	Next      string `form:"next"`
}

// Outcome là kết quả cuối cùng cùng các state đã đi qua
type Outcome struct {
	State       State
	Reason      Reason
	Destination string
	AccountID   uuid.UUID
	Transitions []State
}

// Destinations là các URL tuyệt đối của frontend
type Destinations struct {
	SiteURL   string
	Login     string
	Setup     string
	Dashboard string
}

func (d Destinations) LoginWithError(reason Reason) string {
	return d.SiteURL + d.Login + "?error=" + url.QueryEscape(string(reason))
}

func (d Destinations) SetupURL() string {
	return d.SiteURL + d.Setup
}

// DashboardURL trả về next nếu next là relative path an toàn trên cùng site
func (d Destinations) DashboardURL(next string) string {
	if IsSafeNext(next) {
		return d.SiteURL + next
	}
	return d.SiteURL + d.Dashboard
}

// IsSafeNext chỉ chấp nhận path bắt đầu bằng một "/" (không phải "//" hay "/\")
func IsSafeNext(next string) bool {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}
	u, err := url.Parse(next)
	return err == nil && u.Scheme == "" && u.Host == ""
}
