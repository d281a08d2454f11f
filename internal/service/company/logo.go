package company

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/domain/company"
	"golang.org/x/image/draw"
)

// maxLogoWidth bounds the stored logo; wider images are scaled down.
const maxLogoWidth = 512

type logoFile struct {
	data        []byte
	contentType string
	ext         string
}

// readLogo reads at most MaxLogoSize bytes, checks the content is PNG or
// JPEG and scales it down to maxLogoWidth.
func readLogo(r io.Reader) (logoFile, error) {
	raw, err := io.ReadAll(io.LimitReader(r, company.MaxLogoSize+1))
	if err != nil {
		return logoFile{}, fmt.Errorf("failed to read logo: %w", err)
	}
	if len(raw) > company.MaxLogoSize {
		return logoFile{}, company.ErrLogoTooLarge
	}

	var logo logoFile
	switch http.DetectContentType(raw) {
	case "image/png":
		logo = logoFile{contentType: "image/png", ext: ".png"}
	case "image/jpeg":
		logo = logoFile{contentType: "image/jpeg", ext: ".jpg"}
	default:
		return logoFile{}, company.ErrInvalidLogoFile
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return logoFile{}, company.ErrInvalidLogoFile
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxLogoWidth {
		logo.data = raw
		return logo, nil
	}

	height := bounds.Dy() * maxLogoWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxLogoWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	buf := new(bytes.Buffer)
	if logo.contentType == "image/png" {
		err = png.Encode(buf, dst)
	} else {
		err = jpeg.Encode(buf, dst, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return logoFile{}, fmt.Errorf("failed to encode logo: %w", err)
	}
	logo.data = buf.Bytes()
	return logo, nil
}
