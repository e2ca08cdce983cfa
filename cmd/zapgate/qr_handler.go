package main

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"zapgate/internal/constants"

	"github.com/skip2/go-qrcode"
)

const qrPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
%s<title>zapgate</title>
<style>body{font-family:sans-serif;text-align:center;margin-top:3em}</style>
</head>
<body>
%s
</body>
</html>`

// handleQR renders the pairing page. While a QR payload is pending it is
// shown as an inline PNG; once paired the page says so; before the first
// code arrives it auto-refreshes.
func (s *Server) handleQR() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		if s.gateway.Status().Ready {
			fmt.Fprintf(w, qrPageTemplate, "",
				"<h1>Connected</h1><p>The session is already paired. No QR code needed.</p>")
			return
		}

		code := s.gateway.PairingCode()
		if code == "" {
			fmt.Fprintf(w, qrPageTemplate, `<meta http-equiv="refresh" content="2">`,
				"<h1>Please wait</h1><p>Generating QR code...</p>")
			return
		}

		png, err := qrcode.Encode(code, qrcode.Medium, constants.DefaultQRImageSizePx)
		if err != nil {
			s.logger.WithError(err).Error("Failed to render QR code")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		img := fmt.Sprintf(`<h1>Scan to pair</h1><img src="data:image/png;base64,%s" alt="QR code"><p>Open WhatsApp and scan the code. It refreshes automatically.</p>`,
			base64.StdEncoding.EncodeToString(png))
		fmt.Fprintf(w, qrPageTemplate, `<meta http-equiv="refresh" content="20">`, img)
	}
}
