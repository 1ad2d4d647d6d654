// Package card renders visitor card PNGs: an event template (or a plain
// background) overlaid with the tourist's photo, a QR code carrying the
// tourist ID, and the key registration details.
package card

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	dErrors "gatepass/pkg/domainerrors"
)

const (
	cardWidth  = 720
	cardHeight = 1280

	photoSize = 200
	qrSize    = 200
)

// Details is everything printed on a card.
type Details struct {
	TouristID string
	Name      string
	Email     string
	IDType    string
	IDNumber  string
	ValidFrom time.Time
	ValidTo   time.Time
}

// Generator renders cards into outputDir. When templatePath is empty a plain
// background is used instead.
type Generator struct {
	templatePath string
	outputDir    string
}

func NewGenerator(templatePath, outputDir string) *Generator {
	return &Generator{templatePath: templatePath, outputDir: outputDir}
}

// Generate renders the card for d using the photo at photoPath and returns
// the path of the written PNG.
func (g *Generator) Generate(d Details, photoPath string) (string, error) {
	canvas, err := g.background()
	if err != nil {
		return "", err
	}

	photo, err := imaging.Open(photoPath)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to generate visitor card", err)
	}
	photo = imaging.Fill(photo, photoSize, photoSize, imaging.Center, imaging.Lanczos)
	draw.Draw(canvas, image.Rect(100, 400, 100+photoSize, 400+photoSize), photo, image.Point{}, draw.Over)

	qr, err := qrcode.New("TOURIST-"+d.TouristID, qrcode.Medium)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to generate visitor card", err)
	}
	qrImg := qr.Image(qrSize)
	draw.Draw(canvas, image.Rect(420, 400, 420+qrSize, 400+qrSize), qrImg, image.Point{}, draw.Over)

	black := color.RGBA{A: 255}
	drawText(canvas, 100, 620, "Name: "+d.Name, black)
	drawText(canvas, 100, 670, "Email: "+d.Email, black)
	drawText(canvas, 100, 710, fmt.Sprintf("%s: %s", strings.ToUpper(d.IDType), d.IDNumber), black)
	drawText(canvas, 100, 760, fmt.Sprintf("Valid: %s - %s",
		d.ValidFrom.Format("02 Jan 2006"), d.ValidTo.Format("02 Jan 2006")), black)

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to generate visitor card", err)
	}
	out := filepath.Join(g.outputDir, fmt.Sprintf("%s_card_%d.png", slugify(d.Name), time.Now().UnixNano()))
	if err := imaging.Save(canvas, out); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to generate visitor card", err)
	}
	return out, nil
}

func (g *Generator) background() (*image.NRGBA, error) {
	if g.templatePath != "" {
		tmpl, err := imaging.Open(g.templatePath)
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load card template", err)
		}
		return imaging.Resize(tmpl, cardWidth, cardHeight, imaging.Lanczos), nil
	}
	return imaging.New(cardWidth, cardHeight, color.NRGBA{R: 245, G: 245, B: 245, A: 255}), nil
}

func drawText(dst draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "visitor"
	}
	return b.String()
}
