package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/amplen/quotation-builder/internal/i18n"
	"github.com/amplen/quotation-builder/internal/quote"
)

const (
	brand      = "AMPLE:N"
	fontFamily = "quotation"
)

var (
	headerFill  = props.Color{Red: 34, Green: 40, Blue: 49}
	headerText  = props.Color{Red: 255, Green: 255, Blue: 255}
	sectionFill = props.Color{Red: 223, Green: 230, Blue: 233}
	altFill     = props.Color{Red: 249, Green: 249, Blue: 249}
	subtleText  = props.Color{Red: 119, Green: 119, Blue: 119}
	faintText   = props.Color{Red: 170, Green: 170, Blue: 170}
	totalFill   = props.Color{Red: 34, Green: 40, Blue: 49}
)

// Metadata carries the per-document fields the renderer prints but does not
// compute: the assigned number, the export date and the display rate.
type Metadata struct {
	DocNumber    string
	Date         time.Time
	ExchangeRate float64 // KRW per USD, display only
}

// Renderer turns a quotation view plus resolved bitmaps into a landscape A4
// PDF using a vector table layout.
type Renderer struct {
	fontPath string
}

func NewRenderer(fontPath string) *Renderer {
	return &Renderer{fontPath: fontPath}
}

// Filename formats the export file name: document number when one was
// assigned, item count otherwise.
func Filename(docNumber string, itemCount int, date time.Time) string {
	tag := docNumber
	if tag == "" {
		tag = fmt.Sprintf("%ditems", itemCount)
	}
	return fmt.Sprintf("AMPLEN_%s_%s.pdf", tag, date.Format("20060102"))
}

// Render produces the PDF bytes. images maps product image URLs to resolved
// square JPEG bitmaps; a product whose URL is missing from the map gets no
// photo cell content rather than failing the document.
func (r *Renderer) Render(view *quote.View, images map[string][]byte, meta Metadata) ([]byte, error) {
	if view == nil || view.Empty() {
		return nil, fmt.Errorf("render: empty quotation view")
	}

	m := maroto.New(r.buildConfig())

	if err := m.RegisterFooter(r.footerRow(meta)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	m.AddRows(r.titleRow(meta))
	m.AddRows(r.tableHeader())

	idx := 0
	for _, group := range view.Sections {
		m.AddRows(r.sectionRow(group))
		for _, item := range group.Items {
			idx++
			m.AddRows(r.itemRow(idx, item, images))
		}
	}
	m.AddRows(r.totalRow(view))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// buildConfig assembles page setup and registers a Cyrillic-capable TTF
// before any text is drawn. An operator-supplied font takes precedence (a
// fuller face can add Hangul coverage); when none is configured or it fails
// to load, the embedded Go fonts are used so Cyrillic renders out of the
// box.
func (r *Renderer) buildConfig() *entity.Config {
	fonts, err := r.loadFonts()
	if err != nil {
		log.Warn().Str("font", r.fontPath).Err(err).
			Msg("custom font unavailable, using embedded default")
		fonts, _ = embeddedFonts()
	}

	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(8).
		WithTopMargin(8).
		WithRightMargin(8).
		WithCustomFonts(fonts).
		WithDefaultFont(&props.Font{Family: fontFamily}).
		Build()
}

func (r *Renderer) loadFonts() ([]*entity.CustomFont, error) {
	if r.fontPath == "" {
		return embeddedFonts()
	}
	return repository.New().
		AddUTF8Font(fontFamily, fontstyle.Normal, r.fontPath).
		AddUTF8Font(fontFamily, fontstyle.Bold, r.fontPath).
		Load()
}

// embeddedFonts loads the Go fonts shipped with golang.org/x/image, which
// cover Latin, Greek and Cyrillic. Byte-backed fonts cannot fail to load.
func embeddedFonts() ([]*entity.CustomFont, error) {
	return repository.New().
		AddUTF8FontFromBytes(fontFamily, fontstyle.Normal, goregular.TTF).
		AddUTF8FontFromBytes(fontFamily, fontstyle.Bold, gobold.TTF).
		Load()
}

func (r *Renderer) titleRow(meta Metadata) core.Row {
	info := fmt.Sprintf("%s: %s   %s: $1 = ₩%.0f",
		i18n.T("ru", "date"), meta.Date.Format("2006.01.02"),
		i18n.T("ru", "rate"), meta.ExchangeRate)
	subtitle := i18n.T("ru", "quotation") + " / " + i18n.T("kr", "quotation")
	if meta.DocNumber != "" {
		subtitle += " · " + meta.DocNumber
	}
	return row.New(14).Add(
		col.New(6).Add(
			text.New(brand, props.Text{Size: 16, Style: fontstyle.Bold}),
			text.New(subtitle, props.Text{Top: 8, Size: 7, Color: &subtleText}),
		),
		text.NewCol(6, info, props.Text{Top: 4, Size: 8, Align: align.Right}),
	)
}

func (r *Renderer) tableHeader() core.Row {
	style := props.Text{Size: 8, Style: fontstyle.Bold, Color: &headerText, Top: 1.5}
	center := style
	center.Align = align.Center
	right := style
	right.Align = align.Right
	return row.New(7).WithStyle(&props.Cell{BackgroundColor: &headerFill}).Add(
		text.NewCol(1, "№", center),
		text.NewCol(1, "", style),
		text.NewCol(4, i18n.T("ru", "name_header"), style),
		text.NewCol(1, i18n.T("ru", "volume_header"), center),
		text.NewCol(2, i18n.T("ru", "price_header"), right),
		text.NewCol(1, i18n.T("ru", "qty_header"), center),
		text.NewCol(2, i18n.T("ru", "amount_header"), right),
	)
}

func (r *Renderer) sectionRow(group quote.SectionGroup) core.Row {
	sec := group.Section
	label := fmt.Sprintf("%s. %s", sec.Num, sec.Title)
	if sec.TitleRu != "" {
		label += " — " + sec.TitleRu
	}
	return row.New(6).WithStyle(&props.Cell{BackgroundColor: &sectionFill}).Add(
		text.NewCol(10, label, props.Text{Size: 8, Style: fontstyle.Bold, Top: 1}),
		text.NewCol(2, money(group.SectionTotal), props.Text{
			Size: 8, Style: fontstyle.Bold, Align: align.Right, Top: 1,
		}),
	)
}

func (r *Renderer) itemRow(idx int, item quote.LineItem, images map[string][]byte) core.Row {
	p := item.Product

	cols := []core.Col{
		text.NewCol(1, fmt.Sprintf("%d", idx), props.Text{Size: 8, Align: align.Center, Top: 6}),
		r.photoCol(images[p.Image]),
		col.New(4).Add(
			text.New(p.NameRu, props.Text{Size: 8, Style: fontstyle.Bold, Top: 2}),
			text.New(p.NameEn, props.Text{Size: 6, Color: &subtleText, Top: 7}),
			text.New(p.NameKr, props.Text{Size: 6, Color: &faintText, Top: 10.5}),
		),
		text.NewCol(1, p.Volume, props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Top: 6}),
		text.NewCol(2, money(p.Pricing.USD), props.Text{Size: 8, Align: align.Right, Top: 6}),
		text.NewCol(1, fmt.Sprintf("%d", item.Qty), props.Text{
			Size: 9, Style: fontstyle.Bold, Align: align.Center, Top: 6,
		}),
		text.NewCol(2, money(item.LineTotal), props.Text{
			Size: 8, Style: fontstyle.Bold, Align: align.Right, Top: 6,
		}),
	}

	rw := row.New(16).Add(cols...)
	if idx%2 == 0 {
		rw = rw.WithStyle(&props.Cell{BackgroundColor: &altFill})
	}
	return rw
}

func (r *Renderer) photoCol(img []byte) core.Col {
	if len(img) == 0 {
		return col.New(1)
	}
	return image.NewFromBytesCol(1, img, extension.Jpg, props.Rect{
		Center:  true,
		Percent: 90,
	})
}

func (r *Renderer) totalRow(view *quote.View) core.Row {
	label := fmt.Sprintf("%s (%d %s)",
		i18n.T("ru", "total"), view.ItemCount, i18n.T("ru", "items_label"))
	style := props.Text{Size: 9, Style: fontstyle.Bold, Color: &headerText, Top: 2}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: &totalFill}).Add(
		text.NewCol(9, label, withAlign(style, align.Right)),
		text.NewCol(1, fmt.Sprintf("%d", view.GrandQty), withAlign(style, align.Center)),
		text.NewCol(2, money(view.GrandTotal), props.Text{
			Size: 11, Style: fontstyle.Bold, Color: &headerText, Align: align.Right, Top: 1,
		}),
	)
}

func (r *Renderer) footerRow(meta Metadata) core.Row {
	footer := fmt.Sprintf("%s · %s · $1 = ₩%.0f",
		i18n.T("ru", "confidential"),
		meta.Date.Format("2006.01.02"),
		meta.ExchangeRate)
	return row.New(5).Add(
		text.NewCol(12, footer, props.Text{Size: 6, Align: align.Center, Color: &subtleText}),
	)
}

func withAlign(t props.Text, a align.Type) props.Text {
	t.Align = a
	return t
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
