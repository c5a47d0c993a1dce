// Package pdf renders assembled reports into PDF documents with go-pdf/fpdf.
// Pages follow the descriptor sequence exactly; the renderer adds no pages
// of its own.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/famscope/famscope/internal/application/report"
	"github.com/famscope/famscope/internal/domain/family"
	"github.com/famscope/famscope/internal/domain/person"
	"github.com/famscope/famscope/internal/infrastructure/monitoring/logging"
	"github.com/famscope/famscope/pkg/errors"
)

type rgb struct{ r, g, b int }

// Palette carried over from the original report design.
var (
	colorDirect   = rgb{0x2C, 0x3E, 0x50}
	colorPaternal = rgb{0x34, 0x98, 0xDB}
	colorMaternal = rgb{0x2E, 0xCC, 0x71}
	colorExtended = rgb{0x95, 0xA5, 0xA6}
	colorBgLight  = rgb{0xF4, 0xF7, 0xF6}

	dashBgMain   = rgb{0xD6, 0xEA, 0xF8}
	dashTitle    = rgb{0x2E, 0x40, 0x53}
	dashTextGray = rgb{0x56, 0x65, 0x73}
	dashTeal     = rgb{0x1A, 0xBC, 0x9C}
	dashBlue     = rgb{0x5D, 0xAD, 0xE2}
	dashWhite    = rgb{0xFF, 0xFF, 0xFF}
)

func branchColor(b family.Branch) rgb {
	switch b {
	case family.BranchDirect:
		return colorDirect
	case family.BranchPaternal:
		return colorPaternal
	case family.BranchMaternal:
		return colorMaternal
	default:
		return colorExtended
	}
}

// Letter page geometry, in points.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	marginX    = 40.0

	cardWidth   = 160.0
	cardHeight  = 75.0
	cardStrideX = 180.0
	cardStrideY = 85.0
	cardsPerRow = 3
)

// Renderer draws reports.  Renderers are stateless and safe for concurrent
// use; each Render call builds its own document.
type Renderer struct {
	logger logging.Logger
}

// NewRenderer builds a renderer.
func NewRenderer(log logging.Logger) *Renderer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Renderer{logger: log.Named("pdf")}
}

// Render produces the complete PDF for rpt, or an error and no bytes.
func (r *Renderer) Render(ctx context.Context, rpt *report.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRenderFailed, "rendering cancelled")
	}

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	d := &drawer{doc: doc, tr: tr}
	for _, page := range rpt.Pages {
		switch page.Section {
		case report.SectionPrincipalSummary:
			d.principalSummary(rpt)
		case report.SectionLegend:
			d.legend(page)
		case report.SectionBranchListing:
			d.branchListing(page)
		case report.SectionStatistics:
			d.statistics(rpt)
		default:
			return nil, errors.Newf(errors.ErrCodeRenderFailed, "unknown page section %q", page.Section)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRenderFailed, "writing pdf document")
	}

	r.logger.Debug("document rendered",
		logging.String("dni", rpt.DNI),
		logging.Int("pages", len(rpt.Pages)),
		logging.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// drawer holds the per-document drawing state.
type drawer struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (d *drawer) fill(c rgb)      { d.doc.SetFillColor(c.r, c.g, c.b) }
func (d *drawer) textColor(c rgb) { d.doc.SetTextColor(c.r, c.g, c.b) }

func (d *drawer) text(x, y float64, s string) {
	d.doc.Text(x, y, d.tr(s))
}

// header draws the dark title band at the top of a page.
func (d *drawer) header(title string) {
	d.fill(colorDirect)
	d.doc.Rect(0, 0, pageWidth, 50, "F")
	d.textColor(dashWhite)
	d.doc.SetFont("Helvetica", "B", 16)
	d.text(marginX, 32, title)
	d.doc.SetFont("Helvetica", "", 10)
	d.text(pageWidth-160, 32, "SISTEMA DE CONSULTA")
}

func (d *drawer) principalSummary(rpt *report.Report) {
	d.doc.AddPage()
	d.header("REPORTE GENEALOGICO PROFESIONAL")

	p := rpt.Principal

	d.fill(colorBgLight)
	d.doc.Rect(marginX, 80, pageWidth-2*marginX, 120, "F")
	d.doc.SetDrawColor(colorDirect.r, colorDirect.g, colorDirect.b)
	d.doc.Rect(marginX, 80, pageWidth-2*marginX, 120, "D")

	d.textColor(colorDirect)
	d.doc.SetFont("Helvetica", "B", 18)
	d.text(60, 112, "PERSONA CONSULTADA")
	d.doc.SetFont("Helvetica", "B", 22)
	d.text(60, 140, p.FullName())

	d.textColor(rgb{0x44, 0x44, 0x44})
	d.doc.SetFont("Helvetica", "", 12)
	birth := p.BirthDate
	if birth == "" {
		birth = person.Display
	}
	d.text(60, 165, fmt.Sprintf("DNI: %s  |  Sexo: %s  |  Nacimiento: %s  |  Edad: %s",
		p.DocumentID, genderLabel(p.Gender), birth, p.DisplayAge()))

	d.textColor(dashTextGray)
	d.doc.SetFont("Helvetica", "", 10)
	d.text(marginX, 240, fmt.Sprintf("Familiares identificados: %d", rpt.Group.Total()))
	d.text(marginX, 256, fmt.Sprintf("Generado: %s", rpt.GeneratedAt.Format("2006-01-02 15:04:05")))
}

func genderLabel(g person.Gender) string {
	switch g {
	case person.GenderMale:
		return "MASCULINO"
	case person.GenderFemale:
		return "FEMENINO"
	default:
		return person.Display
	}
}

func (d *drawer) legend(page report.PageDescriptor) {
	d.doc.AddPage()
	d.header(page.Title)

	d.doc.SetDrawColor(0xEE, 0xEE, 0xEE)
	d.doc.Rect(marginX, 80, pageWidth-2*marginX, 60, "D")
	d.textColor(rgb{0x33, 0x33, 0x33})
	d.doc.SetFont("Helvetica", "", 10)
	d.text(55, 95, "LEYENDA VISUAL:")

	entries := []struct {
		c rgb
		t string
	}{
		{colorDirect, "Familia Directa"},
		{colorPaternal, "Familia Paterna"},
		{colorMaternal, "Familia Materna"},
		{colorExtended, "Familia Extendida/Politica"},
	}
	for i, e := range entries {
		x := 55 + float64(i)*130
		d.fill(e.c)
		d.doc.Rect(x, 105, 10, 10, "F")
		d.textColor(rgb{0x55, 0x55, 0x55})
		d.text(x+15, 114, e.t)
	}

	d.textColor(dashTextGray)
	d.doc.SetFont("Helvetica", "", 9)
	d.text(marginX, 170, "Cada ficha de familiar lleva el color de la rama a la que pertenece.")
	d.text(marginX, 184, "Las ramas sin registros se indican de forma explicita en su pagina.")
}

func (d *drawer) branchListing(page report.PageDescriptor) {
	d.doc.AddPage()
	d.header(page.Title)

	c := branchColor(page.Branch)

	if page.Empty {
		d.fill(colorBgLight)
		d.doc.Rect(marginX, 100, pageWidth-2*marginX, 60, "F")
		d.textColor(dashTextGray)
		d.doc.SetFont("Helvetica", "I", 12)
		d.text(60, 135, "SIN REGISTROS EN ESTA RAMA")
		return
	}

	x := marginX
	y := 80.0
	for i, p := range page.Items {
		if i > 0 && i%cardsPerRow == 0 {
			x = marginX
			y += cardStrideY
		}
		d.personCard(x, y, p, c)
		x += cardStrideX
	}

	if page.PageCount > 1 {
		d.textColor(dashTextGray)
		d.doc.SetFont("Helvetica", "", 9)
		d.text(pageWidth-120, pageHeight-30,
			fmt.Sprintf("Pagina %d de %d", page.PageIndex, page.PageCount))
	}
}

// personCard draws one relative ficha: shadow, colored tag, name, id line.
func (d *drawer) personCard(x, y float64, p person.Person, c rgb) {
	d.fill(rgb{0xBD, 0xC3, 0xC7})
	d.doc.Rect(x+2, y+2, cardWidth, cardHeight, "F")
	d.fill(dashWhite)
	d.doc.SetDrawColor(c.r, c.g, c.b)
	d.doc.Rect(x, y, cardWidth, cardHeight, "FD")

	label := p.RelationshipLabel
	if label == "" {
		label = "TITULAR"
	}
	d.textColor(c)
	d.doc.SetFont("Helvetica", "B", 8)
	d.text(x+35, y+16, label)

	icon := "F"
	if p.Gender == person.GenderMale {
		icon = "M"
	}
	d.fill(c)
	d.doc.Circle(x+18, y+14, 8, "F")
	d.textColor(dashWhite)
	d.text(x+15, y+17, icon)

	d.textColor(rgb{0x22, 0x22, 0x22})
	d.doc.SetFont("Helvetica", "B", 9)
	d.text(x+10, y+36, clip(p.GivenNames, 26))
	d.doc.SetFont("Helvetica", "", 9)
	d.text(x+10, y+50, clip(p.PaternalSurname+" "+p.MaternalSurname, 28))

	d.textColor(rgb{0x66, 0x66, 0x66})
	d.doc.SetFont("Helvetica", "", 7)
	d.text(x+10, y+66, fmt.Sprintf("DNI: %s  |  Edad: %s", p.DocumentID, p.DisplayAge()))
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "."
}

func (d *drawer) statistics(rpt *report.Report) {
	d.doc.AddPage()
	s := rpt.Stats

	d.fill(dashBgMain)
	d.doc.Rect(0, 0, pageWidth, pageHeight, "F")

	d.fill(dashWhite)
	d.doc.Rect(marginX, 40, pageWidth-2*marginX, 100, "F")
	d.textColor(dashTitle)
	d.doc.SetFont("Helvetica", "B", 28)
	d.text(60, 85, "Datos y Estadisticas")
	d.textColor(dashTextGray)
	d.doc.SetFont("Helvetica", "", 10)
	d.text(60, 110, "Resumen analitico de la composicion familiar basado en los registros")
	d.text(60, 124, "procesados: distribucion por genero, edad y lineas de parentesco.")

	males := s.ByGender[person.GenderMale]
	females := s.ByGender[person.GenderFemale]

	// Row 1: gender donuts, total card, adult share bar.
	row1 := 160.0
	d.fill(dashWhite)
	d.doc.Rect(marginX, row1, 200, 150, "F")
	d.donut(90, row1+60, 30, s.Percent(males), "Hombres", dashTeal)
	d.donut(190, row1+60, 30, s.Percent(females), "Mujeres", dashBlue)

	d.fill(dashWhite)
	d.doc.Rect(260, row1, 150, 150, "F")
	d.textColor(dashTitle)
	d.doc.SetFont("Helvetica", "B", 12)
	d.text(275, row1+30, fmt.Sprintf("%d Familiares", s.Total))
	d.textColor(dashTextGray)
	d.doc.SetFont("Helvetica", "", 8)
	d.text(275, row1+90, "Total de registros identificados")
	d.text(275, row1+102, "en el arbol genealogico.")

	d.fill(dashWhite)
	d.doc.Rect(430, row1, 142, 150, "F")
	adults := 0
	if len(s.BracketLabels) > 1 {
		adults = s.ByBracket[s.BracketLabels[1]]
	}
	d.progressBar(440, row1+50, s.Percent(adults))
	d.textColor(dashTextGray)
	d.doc.SetFont("Helvetica", "", 7)
	d.text(440, row1+90, "Familiares en edad adulta")
	d.text(440, row1+100, "sobre el total registrado.")

	// Row 2: branch distribution and age-by-gender bars.
	row2 := 330.0
	d.fill(dashWhite)
	d.doc.Rect(marginX, row2, 250, 200, "F")
	branchCounts := make([]int, 0, 4)
	for _, b := range family.Branches() {
		branchCounts = append(branchCounts, s.ByBranch[b])
	}
	d.branchBars(60, row2+20, 210, 130, branchCounts)
	d.textColor(dashTitle)
	d.doc.SetFont("Helvetica", "B", 10)
	d.text(60, row2+180, "Distribucion por Ramas")

	d.fill(dashWhite)
	d.doc.Rect(310, row2, 262, 200, "F")
	d.genderAgeBars(330, row2+20, 220, 130,
		s.ByGenderBracket[person.GenderMale],
		s.ByGenderBracket[person.GenderFemale],
		s.BracketLabels)
	d.textColor(dashTitle)
	d.doc.SetFont("Helvetica", "B", 10)
	d.text(330, row2+180, "Rango de Edades por Genero")

	if s.AgeUnknown > 0 {
		d.textColor(dashTextGray)
		d.doc.SetFont("Helvetica", "", 8)
		d.text(330, row2+192, fmt.Sprintf("Sin edad registrada: %d", s.AgeUnknown))
	}

	d.legalNote()
}

// donut approximates the original ring chart with a colored arc over a gray
// ring and the percentage centered below.
func (d *drawer) donut(cx, cy, radius float64, pct int, label string, c rgb) {
	d.doc.SetLineWidth(6)
	d.doc.SetDrawColor(0xEC, 0xF0, 0xF1)
	d.doc.Circle(cx, cy, radius, "D")
	if pct > 0 {
		d.doc.SetDrawColor(c.r, c.g, c.b)
		sweep := 360 * float64(pct) / 100
		d.doc.Arc(cx, cy, radius, radius, 0, 90-sweep, 90, "D")
	}
	d.doc.SetLineWidth(0.2)

	d.textColor(dashTitle)
	d.doc.SetFont("Helvetica", "B", 11)
	d.text(cx-12, cy+4, fmt.Sprintf("%d%%", pct))
	d.textColor(dashTextGray)
	d.doc.SetFont("Helvetica", "", 8)
	d.text(cx-18, cy+radius+16, label)
}

func (d *drawer) progressBar(x, y float64, pct int) {
	width := 122.0
	d.fill(rgb{0xEC, 0xF0, 0xF1})
	d.doc.Rect(x, y, width, 12, "F")
	d.fill(dashTeal)
	d.doc.Rect(x, y, width*float64(pct)/100, 12, "F")
	d.textColor(dashTitle)
	d.doc.SetFont("Helvetica", "B", 11)
	d.text(x, y-8, fmt.Sprintf("%d%%", pct))
}

// branchBars draws one bar per branch in branch colors.
func (d *drawer) branchBars(x, y, w, h float64, counts []int) {
	max := 1
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	colors := []rgb{colorDirect, colorPaternal, colorMaternal, colorExtended}
	barW := w / float64(len(counts)*2)
	for i, c := range counts {
		bx := x + float64(i)*2*barW + barW/2
		bh := h * float64(c) / float64(max)
		d.fill(colors[i%len(colors)])
		d.doc.Rect(bx, y+h-bh, barW, bh, "F")
		d.textColor(dashTextGray)
		d.doc.SetFont("Helvetica", "", 7)
		d.text(bx, y+h+10, fmt.Sprintf("%d", c))
	}
}

// genderAgeBars draws paired bars per bracket, male then female.
func (d *drawer) genderAgeBars(x, y, w, h float64, males, females []int, labels []string) {
	max := 1
	for _, c := range males {
		if c > max {
			max = c
		}
	}
	for _, c := range females {
		if c > max {
			max = c
		}
	}

	n := len(labels)
	if n == 0 {
		return
	}
	groupW := w / float64(n)
	barW := groupW / 3
	for i := 0; i < n; i++ {
		gx := x + float64(i)*groupW
		var m, f int
		if i < len(males) {
			m = males[i]
		}
		if i < len(females) {
			f = females[i]
		}

		mh := h * float64(m) / float64(max)
		d.fill(dashTeal)
		d.doc.Rect(gx, y+h-mh, barW, mh, "F")

		fh := h * float64(f) / float64(max)
		d.fill(dashBlue)
		d.doc.Rect(gx+barW+2, y+h-fh, barW, fh, "F")

		d.textColor(dashTextGray)
		d.doc.SetFont("Helvetica", "", 7)
		d.text(gx, y+h+10, labels[i])
	}

	// Series legend.
	d.fill(dashTeal)
	d.doc.Circle(x+w-80, y-8, 3, "F")
	d.textColor(dashTextGray)
	d.text(x+w-72, y-5, "Masc.")
	d.fill(dashBlue)
	d.doc.Circle(x+w-30, y-8, 3, "F")
	d.text(x+w-22, y-5, "Fem.")
}

func (d *drawer) legalNote() {
	d.fill(rgb{0xF2, 0xF3, 0xF4})
	d.doc.Rect(marginX, 560, pageWidth-2*marginX, 80, "F")
	d.textColor(rgb{0x7F, 0x8C, 0x8D})
	d.doc.SetFont("Helvetica", "I", 8)
	lines := []string{
		"NOTA LEGAL:",
		"1. La informacion estadistica presentada es generada dinamicamente basada en la consulta actual.",
		"2. Los porcentajes son aproximados y redondeados.",
		"3. Este documento es de caracter informativo y no constituye un certificado oficial.",
	}
	for i, line := range lines {
		d.text(50, 575+float64(i)*12, line)
	}
}
