package render

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the edge length in pixels of generated share codes
const QRSize = 256

// ShareURL is the team status link players scan to follow a team
func ShareURL(publicURL, teamID string) string {
	return strings.TrimRight(publicURL, "/") + "/team_status/" + teamID
}

// ShareQR renders the share link of a team as a PNG QR code
func ShareQR(publicURL, teamID string) ([]byte, error) {
	png, err := qrcode.Encode(ShareURL(publicURL, teamID), qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}
