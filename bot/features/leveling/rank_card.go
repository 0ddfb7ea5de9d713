package leveling

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/whoami669/my-bot/bot/common"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	cardWidth  = 600
	cardHeight = 180
	cardPad    = 24
)

// RankCard is the data drawn on a /rank image
type RankCard struct {
	DisplayName  string
	Rank         int
	Level        int
	XP           int64
	LevelStartXP int64
	NextLevelXP  int64
	Messages     int64
}

// Progress returns the XP earned inside the current level and the XP the level spans
func (c RankCard) Progress() (int64, int64) {
	return c.XP - c.LevelStartXP, c.NextLevelXP - c.LevelStartXP
}

var (
	fontOnce sync.Once
	fontErr  error
	boldFont *truetype.Font
	bodyFont *truetype.Font
)

func loadFonts() error {
	fontOnce.Do(func() {
		if boldFont, fontErr = truetype.Parse(gobold.TTF); fontErr != nil {
			return
		}
		bodyFont, fontErr = truetype.Parse(goregular.TTF)
	})
	return fontErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RenderRankCard draws the card as a PNG
func RenderRankCard(card RankCard) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	dc := gg.NewContext(cardWidth, cardHeight)

	grad := gg.NewLinearGradient(0, 0, cardWidth, cardHeight)
	grad.AddColorStop(0, rgb(0x23272A))
	grad.AddColorStop(1, rgb(0x2C2F6B))
	dc.SetFillStyle(grad)
	dc.DrawRoundedRectangle(0, 0, cardWidth, cardHeight, 16)
	dc.Fill()

	dc.SetFontFace(face(boldFont, 28))
	dc.SetRGB(1, 1, 1)
	dc.DrawString(common.Truncate(card.DisplayName, 24), cardPad, 52)

	dc.SetFontFace(face(boldFont, 22))
	dc.SetRGB(1, 0.84, 0)
	dc.DrawStringAnchored(fmt.Sprintf("#%d", card.Rank), cardWidth-cardPad, 52, 1, 0)

	dc.SetFontFace(face(bodyFont, 18))
	dc.SetRGB(0.85, 0.85, 0.9)
	dc.DrawString(fmt.Sprintf("Level %d", card.Level), cardPad, 92)
	dc.DrawStringAnchored(fmt.Sprintf("%s messages", common.FormatBalance(card.Messages)), cardWidth-cardPad, 92, 1, 0)

	earned, span := card.Progress()
	barX, barY := float64(cardPad), 112.0
	barW, barH := float64(cardWidth-2*cardPad), 22.0

	dc.SetRGBA(1, 1, 1, 0.15)
	dc.DrawRoundedRectangle(barX, barY, barW, barH, barH/2)
	dc.Fill()

	if span > 0 && earned > 0 {
		fill := barW * float64(min(earned, span)) / float64(span)
		dc.SetRGB(0.34, 0.95, 0.53)
		dc.DrawRoundedRectangle(barX, barY, max(fill, barH), barH, barH/2)
		dc.Fill()
	}

	dc.SetFontFace(face(bodyFont, 14))
	dc.SetRGB(0.85, 0.85, 0.9)
	dc.DrawString(fmt.Sprintf("%s / %s XP", common.FormatBalance(earned), common.FormatBalance(span)), cardPad, 160)
	dc.DrawStringAnchored(fmt.Sprintf("Total %s XP", common.FormatBalance(card.XP)), cardWidth-cardPad, 160, 1, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode rank card: %w", err)
	}
	return buf.Bytes(), nil
}

func rgb(hex int) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 255}
}
