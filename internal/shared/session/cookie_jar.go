package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinCookieJar đọc cookie từ request và ghi Set-Cookie vào response của gin.Context
type GinCookieJar struct {
	c *gin.Context
}

func NewGinCookieJar(c *gin.Context) *GinCookieJar {
	return &GinCookieJar{c: c}
}

func (j *GinCookieJar) Get(name string) (string, bool) {
	value, err := j.c.Cookie(name)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func (j *GinCookieJar) Set(cookie *http.Cookie) {
	http.SetCookie(j.c.Writer, cookie)
}
