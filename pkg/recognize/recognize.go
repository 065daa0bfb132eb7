package recognize

import (
	"fmt"
	"log"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"pitchlab/pkg/extract"
)

// Recognizer turns a screenshot into the fragment corpus the extraction
// engine consumes. The engine itself never touches images; swapping the
// recognition backend means swapping this interface's implementation.
type Recognizer interface {
	Fragments(path string) ([]extract.Fragment, error)
}

// Tesseract recognizes tracker screenshots with line-level bounding boxes.
// Two passes run per image: one over the preprocessed frame and one over
// its inverse, since the readout screens render light text on dark panels.
type Tesseract struct {
	// Lang passed to tesseract, defaults to "eng".
	Lang string
}

func NewTesseract() *Tesseract { return &Tesseract{Lang: "eng"} }

// Fragments runs the OCR passes and returns normalized fragments. Boxes are
// scaled to [0,1] with the vertical axis flipped to increase upward, the
// convention the extraction engine expects.
func (t *Tesseract) Fragments(path string) ([]extract.Fragment, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	prepped := prepare(img)
	w := float64(prepped.Bounds().Dx())
	h := float64(prepped.Bounds().Dy())

	var out []extract.Fragment
	seen := map[string]struct{}{}

	for i := 0; i < 2; i++ {
		frame := prepped
		if i == 1 {
			frame = binarize(imaging.Invert(prepped), 210)
		}
		tmp, err := os.CreateTemp("", "screen-*.png")
		if err != nil {
			continue
		}
		_ = tmp.Close()
		if err := imaging.Save(frame, tmp.Name()); err != nil {
			_ = os.Remove(tmp.Name())
			continue
		}
		boxes, err := t.boxesFor(tmp.Name())
		_ = os.Remove(tmp.Name())
		if err != nil {
			log.Printf("recognize pass %d failed: %v", i, err)
			continue
		}
		for _, b := range boxes {
			text := normalizeText(b.Word)
			if text == "" {
				continue
			}
			frag := extract.Fragment{
				Text:       text,
				Confidence: b.Confidence / 100,
				Box: extract.Rect{
					MinX: float64(b.Box.Min.X) / w,
					MaxX: float64(b.Box.Max.X) / w,
					MinY: 1 - float64(b.Box.Max.Y)/h,
					MaxY: 1 - float64(b.Box.Min.Y)/h,
				},
			}
			key := fragKey(frag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, frag)
		}
	}
	log.Printf("recognize %s: %d fragments", path, len(out))
	return out, nil
}

func (t *Tesseract) boxesFor(path string) ([]gosseract.BoundingBox, error) {
	client := gosseract.NewClient()
	defer client.Close()
	lang := t.Lang
	if lang == "" {
		lang = "eng"
	}
	_ = client.SetLanguage(lang)
	_ = client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT)
	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}
	return boxes, nil
}
