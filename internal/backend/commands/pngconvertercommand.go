package commands

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"strings"

	"github.com/jo-hoe/gobeautify/internal/backend/commandstructure"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// hasCorrectPngSignature checks whether the provided data begins with a valid PNG signature
func hasCorrectPngSignature(data []byte) bool {
	// PNG signature: 0x89 'P' 'N' 'G' 0x0D 0x0A 0x1A 0x0A
	if len(data) < 8 {
		return false
	}
	expected := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return bytes.Equal(data[:8], expected)
}

// PngConverterCommand normalizes any supported input (raster or SVG) to PNG
type PngConverterCommand struct {
	name              string
	svgFallbackWidth  int
	svgFallbackHeight int
}

func NewPngConverterCommand(params map[string]any) (commandstructure.Command, error) {
	// Only used when the SVG has no explicit width/height
	w := commandstructure.GetIntParam(params, "svgFallbackWidth", 0)
	h := commandstructure.GetIntParam(params, "svgFallbackHeight", 0)
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("svg fallback size must not be negative, got %dx%d", w, h)
	}

	return &PngConverterCommand{
		name:              "PngConverterCommand",
		svgFallbackWidth:  w,
		svgFallbackHeight: h,
	}, nil
}

func (c *PngConverterCommand) Name() string {
	return c.name
}

func (c *PngConverterCommand) Execute(image commandstructure.Image) (commandstructure.Image, error) {
	slog.Debug("PngConverterCommand: start",
		"input_size_bytes", len(image.Data),
		"input_content_type", image.ContentType)

	if hasCorrectPngSignature(image.Data) {
		return commandstructure.Image{Data: image.Data, ContentType: mimePNG}, nil
	}

	if image.ContentType == "image/svg+xml" || isSVGData(image.Data) {
		out, err := c.convertSVG(image.Data)
		if err != nil {
			return commandstructure.Image{}, err
		}
		return commandstructure.Image{Data: out, ContentType: mimePNG}, nil
	}

	img, _, err := decodeRaster(image.Data)
	if err != nil {
		slog.Error("PngConverterCommand: failed to decode image", "error", err)
		return commandstructure.Image{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return commandstructure.Image{}, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	slog.Debug("PngConverterCommand: raster conversion complete", "output_size_bytes", buf.Len())
	return commandstructure.Image{Data: buf.Bytes(), ContentType: mimePNG}, nil
}

func (c *PngConverterCommand) convertSVG(svgData []byte) ([]byte, error) {
	w, h, ok := parseSvgExplicitSize(svgData)
	if !ok {
		w, h = c.svgFallbackWidth, c.svgFallbackHeight
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("SVG fallback size not set; cannot render SVG without explicit size")
		}
		slog.Debug("PngConverterCommand: SVG lacks explicit size; using fallback", "width", w, "height", h)
	}

	out, err := renderSVGToPNG(svgData, w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to render SVG to PNG: %w", err)
	}
	return out, nil
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("PngConverterCommand", NewPngConverterCommand); err != nil {
		panic(fmt.Sprintf("failed to register PngConverterCommand: %v", err))
	}
}

// parseSvgExplicitSize extracts width and height attributes of the root <svg> tag.
// viewBox is deliberately not treated as a pixel size.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := min(len(data), 8192)
	s := strings.ToLower(string(data[:n]))

	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	end := strings.Index(s[i:], ">")
	if end < 0 {
		end = len(s)
	} else {
		end += i
	}
	tag := s[i:end]

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk {
		return w, h, true
	}
	return 0, 0, false
}

// parseNumericAttr extracts the leading integer of a quoted attribute value, e.g. width="123px" -> 123
func parseNumericAttr(tag, attr string) (int, bool) {
	pos := strings.Index(tag, " "+attr+"=")
	if pos < 0 {
		return 0, false
	}
	rest := tag[pos+len(attr)+2:]
	if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
		return 0, false
	}
	quote := rest[0]
	rest = rest[1:]
	if j := strings.IndexByte(rest, quote); j >= 0 {
		rest = rest[:j]
	}

	num := 0
	found := false
	for k := 0; k < len(rest); k++ {
		ch := rest[k]
		if ch < '0' || ch > '9' {
			break
		}
		found = true
		num = num*10 + int(ch-'0')
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}

// isSVGData looks for an <svg tag or the SVG namespace in the first 4KB
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := min(len(data), 4096)
	header := bytes.ToLower(data[:n])
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("http://www.w3.org/2000/svg"))
}

// renderSVGToPNG rasterizes an SVG onto a white canvas of the given size
func renderSVGToPNG(svgData []byte, targetW, targetH int) ([]byte, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", targetW, targetH)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := createTargetCanvas(targetW, targetH, color.RGBA{255, 255, 255, 255})
	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode rendered SVG as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
