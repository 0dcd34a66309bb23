package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

const AvatarSize = 256

var defaultAvatarColors = []string{
	"#1ABC9C", "#2ECC71", "#3498DB", "#9B59B6", "#34495E",
	"#16A085", "#27AE60", "#2980B9", "#8E44AD", "#E67E22",
	"#E74C3C", "#D35400", "#C0392B", "#7F8C8D",
}

type AvatarConfig struct {
	// FontPath points at a TTF file; the embedded Go Regular face is used
	// when empty.
	FontPath string
	// ColorsPath points at a JSON array of "#RRGGBB" strings.
	ColorsPath string
}

type AvatarService interface {
	// Render draws a circular initials badge for c as PNG.
	Render(ctx context.Context, c *types.Contact) ([]byte, error)
}

type avatarService struct {
	log      *logger.Logger
	colors   []color.NRGBA
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, cfg AvatarConfig) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	hexes := defaultAvatarColors
	if strings.TrimSpace(cfg.ColorsPath) != "" {
		serviceLog.Info("Loading avatar colors...", "path", cfg.ColorsPath)
		loaded, err := loadColorsFromFile(cfg.ColorsPath)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar colors: %w", err)
		}
		hexes = loaded
	}
	colors := make([]color.NRGBA, 0, len(hexes))
	for _, h := range hexes {
		c, err := parseHexColor(h)
		if err != nil {
			return nil, fmt.Errorf("avatar color %q: %w", h, err)
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("avatar colors list is empty")
	}

	fontBytes := goregular.TTF
	if strings.TrimSpace(cfg.FontPath) != "" {
		serviceLog.Info("Loading avatar font", "font", cfg.FontPath)
		raw, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = raw
	}
	face, err := loadFontFace(fontBytes, AvatarSize*0.4)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{log: serviceLog, colors: colors, fontFace: face}, nil
}

func (as *avatarService) Render(ctx context.Context, c *types.Contact) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	const size = float64(AvatarSize)
	dc := gg.NewContext(AvatarSize, AvatarSize)

	dc.DrawCircle(size/2, size/2, size/2)
	dc.Clip()

	dc.SetColor(as.pickColor(c.ID))
	dc.DrawRectangle(0, 0, size, size)
	dc.Fill()

	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(computeInitials(c.Name), size/2, size/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// pickColor is stable per id.
func (as *avatarService) pickColor(id string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return as.colors[h.Sum32()%uint32(len(as.colors))]
}

// computeInitials takes the upper-cased first letter of up to two words.
func computeInitials(name string) string {
	initials := make([]rune, 0, 2)
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		initials = append(initials, unicode.ToUpper(r))
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return string(initials)
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected 6 hex chars")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex")
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xFF}, nil
}

func loadColorsFromFile(jsonPath string) ([]string, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read file error: %w", err)
	}
	var colors []string
	if err := json.Unmarshal(data, &colors); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return colors, nil
}

func loadFontFace(fontBytes []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
