package email

// MagicLinkEmailData chứa dữ liệu render email đăng nhập / xác nhận
type MagicLinkEmailData struct {
	Email     string
	Link      string
	LinkType  string // signup | magiclink
	ExpiresIn string
}
