package main

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// ResumeLink builds the URL a second device opens to continue as the
// profile behind token.
func ResumeLink(base, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("resume", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// serveResumeQR renders a PNG QR code of the resume link for a valid token
func serveResumeQR(hub *Hub, publicURL string, w http.ResponseWriter, r *http.Request) {
	if hub.auth == nil {
		http.Error(w, "accounts disabled", http.StatusNotFound)
		return
	}
	token := r.URL.Query().Get("token")
	if _, err := hub.auth.Resume(token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	base := publicURL
	if base == "" {
		base = "http://" + r.Host
	}
	link, err := ResumeLink(base, token)
	if err != nil {
		http.Error(w, "bad public url", http.StatusInternalServerError)
		return
	}
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("qr encode: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}
