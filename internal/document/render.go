package document

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/config"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/form"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
)

// Renderer rasterizes a submitted snapshot into a single tall bitmap at the
// configured upscaling factor. The bitmap is later sliced into A4 pages.
type Renderer struct {
	scale     int
	pageWidth int // content width in CSS pixels, before upscaling
	padding   int

	title   font.Face
	section font.Face
	bold    font.Face
	body    font.Face
}

// NewRenderer parses the embedded fonts and prepares faces at the scaled
// sizes.
func NewRenderer(cfg config.DocumentConfig) (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.NewRenderFailedError(err)
	}
	boldFont, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, errors.NewRenderFailedError(err)
	}

	face := func(f *opentype.Font, size int) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    float64(size * cfg.Scale),
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	r := &Renderer{
		scale:     cfg.Scale,
		pageWidth: cfg.ContentWidthPx,
		padding:   cfg.PaddingPx,
	}
	if r.title, err = face(boldFont, 20); err != nil {
		return nil, errors.NewRenderFailedError(err)
	}
	if r.section, err = face(boldFont, 14); err != nil {
		return nil, errors.NewRenderFailedError(err)
	}
	if r.bold, err = face(boldFont, 12); err != nil {
		return nil, errors.NewRenderFailedError(err)
	}
	if r.body, err = face(regular, 12); err != nil {
		return nil, errors.NewRenderFailedError(err)
	}
	return r, nil
}

// Render lays out the snapshot and returns the full-height bitmap. Layout
// runs twice: a measuring pass to size the canvas, then the drawing pass.
func (r *Renderer) Render(snap *models.Snapshot) (*image.RGBA, error) {
	var photo image.Image
	if snap.ImageURL != "" {
		raw, err := form.DecodePhoto(snap.ImageURL)
		if err != nil {
			return nil, errors.NewRenderFailedError(err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.NewRenderFailedError(err)
		}
		photo = img
	}

	width := r.pageWidth * r.scale

	measure := &canvas{width: width, padding: r.padding * r.scale}
	r.layout(measure, snap, photo)

	height := measure.y + r.padding*r.scale
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	out := &canvas{img: img, width: width, padding: r.padding * r.scale}
	r.layout(out, snap, photo)
	return img, nil
}

// layout walks every section in document order. The same code path serves
// both the measuring and the drawing pass.
func (r *Renderer) layout(c *canvas, snap *models.Snapshot, photo image.Image) {
	d := snap.FormData
	s := r.scale

	c.y = c.padding

	c.textCentered(r.title, "Application for Admission")
	c.space(8 * s)
	c.textCentered(r.body, "Submitted: "+snap.SubmittedAt.Format("2006-01-02 15:04 MST"))
	c.space(16 * s)

	// Portrait box sits top right; personal fields flow to its left.
	photoW, photoH := 135*s, 180*s
	photoX := c.width - c.padding - photoW
	photoTop := c.y
	c.photoBox(photo, photoX, photoTop, photoW, photoH)

	fieldRight := photoX - 12*s
	r.fieldColumn(c, fieldRight, [][2]string{
		{"Last Name (Romaji)", d.LastNameRomaji},
		{"First Name (Romaji)", d.FirstNameRomaji},
		{"Last Name (Kanji)", d.LastNameKanji},
		{"First Name (Kanji)", d.FirstNameKanji},
		{"Full Name", d.FullName},
		{"Date of Birth", d.DOB},
		{"Age", d.Age},
		{"Gender", d.Gender},
		{"Marital Status", d.MaritalStatus},
		{"Nationality", d.Nationality},
		{"Course", d.Course},
	})
	if c.y < photoTop+photoH {
		c.y = photoTop + photoH
	}
	c.space(12 * s)

	r.sectionHeader(c, "Passport Information")
	r.fields(c, [][2]string{
		{"Passport Number", d.PassportNumber},
		{"Issue Date", d.PassportIssueDate},
		{"Issue Place", d.PassportIssuePlace},
		{"Expiration Date", d.PassportExpirationDate},
	})

	r.sectionHeader(c, "Contact")
	r.fields(c, [][2]string{
		{"E-mail", d.Email},
		{"Phone", d.Phone},
		{"Permanent Address", d.PermanentAddress},
		{"Current Address", d.CurrentAddress},
		{"Occupation", d.Occupation},
	})

	r.sectionHeader(c, "Education History")
	rows := make([][]string, 0, len(d.Education))
	for _, e := range d.Education {
		rows = append(rows, []string{e.SchoolName, e.StartYm, e.EndYm, e.YearsAttended, e.Location})
	}
	r.table(c, []string{"School", "From", "To", "Years", "Location"}, rows)
	r.fields(c, [][2]string{
		{"Last School Attended", d.LastSchoolSummary},
		{"Category", d.LastSchoolCategory},
		{"Years from Elementary", d.YearsFromElementary},
	})

	r.sectionHeader(c, "Employment History")
	r.fields(c, [][2]string{{"Any employment history", orDash(d.EmploymentYesNo)}})
	if d.EmploymentYesNo == "Yes" {
		rows = rows[:0]
		for _, e := range d.Employment {
			rows = append(rows, []string{e.CompanyName, e.StartYm, e.EndYm, e.JobTitle, e.Location})
		}
		r.table(c, []string{"Company", "From", "To", "Job Title", "Location"}, rows)
	}

	r.sectionHeader(c, "Japanese Study")
	r.fields(c, [][2]string{
		{"Studied at a language school", orDash(d.HasStudiedAtLanguageSchool)},
		{"Total learning hours", d.JpLearningHours},
	})
	if d.HasStudiedAtLanguageSchool == "Yes" {
		rows = rows[:0]
		for _, e := range d.JpSchools {
			rows = append(rows, []string{e.SchoolName, e.StartYm, e.EndYm})
		}
		r.table(c, []string{"School", "From", "To"}, rows)
	}

	if len(d.Proficiency) > 0 || d.OtherProficiencyNote != "" {
		r.sectionHeader(c, "Japanese Proficiency")
		rows = rows[:0]
		for _, p := range d.Proficiency {
			rows = append(rows, []string{p.TestName, p.Year, p.Level, p.Score, p.Result})
		}
		r.table(c, []string{"Test", "Year", "Level", "Score", "Result"}, rows)
		if d.OtherProficiencyNote != "" {
			r.fields(c, [][2]string{{"Note", d.OtherProficiencyNote}})
		}
	}

	r.sectionHeader(c, "Stay History")
	r.fields(c, [][2]string{
		{"Prior COE application", orDash(d.CoeHistory.YesNo)},
		{"COE application count", orDash(d.CoeHistory.Count)},
		{"COE denied count", orDash(d.CoeHistory.DeniedCount)},
		{"Visited Japan", orDash(d.Visits.YesNo)},
		{"Visit count", orDash(d.Visits.Count)},
		{"Most recent visit", orDash(d.Visits.Recent)},
	})

	r.sectionHeader(c, "Family")
	rows = rows[:0]
	for _, f := range d.Family {
		rows = append(rows, []string{f.Relation, f.Name, f.DOB, f.Nationality, f.Occupation, f.Address})
	}
	r.table(c, []string{"Relation", "Name", "DOB", "Nationality", "Occupation", "Address"}, rows)
	r.fields(c, [][2]string{{"Family members in Japan", orDash(d.FamilyInJapanYesNo)}})
	if d.FamilyInJapanYesNo == "Yes" {
		rows = rows[:0]
		for _, f := range d.FamilyInJapan {
			rows = append(rows, []string{f.Relation, f.Name, f.DOB, f.Nationality, f.Phone, f.School, f.Status, f.Address})
		}
		r.table(c, []string{"Relation", "Name", "DOB", "Nationality", "Phone", "School", "Status", "Address"}, rows)
	}

	r.sectionHeader(c, "Plans After Graduation")
	r.fields(c, [][2]string{
		{"School Type", d.SchoolType},
		{"School Name", d.SchoolName},
		{"Major or Specialty", d.Major},
		{"Desired Job", d.DesiredJob},
		{"Planned Return Home", d.ReturnHomeYyyyMm},
		{"Motivation", d.Motivation},
		{"Reasons for Applying", d.ReasonsForApplying},
	})

	r.sectionHeader(c, "Sponsor")
	r.fields(c, [][2]string{
		{"Full Name", d.Sponsor.FullName},
		{"Relationship", d.Sponsor.Relationship},
		{"Current Address", d.Sponsor.CurrentAddress},
		{"Phone", d.Sponsor.Phone},
		{"E-mail", d.Sponsor.Email},
		{"Company", d.Sponsor.Company},
		{"Position", d.Sponsor.Position},
		{"Work Address", d.Sponsor.WorkAddress},
		{"Work Phone", d.Sponsor.WorkPhone},
		{"Annual Income (JPY)", d.Sponsor.AnnualIncomeJpy},
		{"Exchange Rate", d.Sponsor.ExchangeRate},
	})

	if d.Notes != "" {
		r.sectionHeader(c, "Notes")
		r.fields(c, [][2]string{{"Notes", d.Notes}})
	}

	if len(snap.Attachments) > 0 {
		r.sectionHeader(c, "Attached Files")
		rows = rows[:0]
		for _, a := range snap.Attachments {
			rows = append(rows, []string{string(a.Key), a.Name, fmt.Sprintf("%d bytes", a.Size)})
		}
		r.table(c, []string{"Slot", "File", "Size"}, rows)
	}
}

func (r *Renderer) sectionHeader(c *canvas, title string) {
	s := r.scale
	c.space(10 * s)
	c.text(r.section, title, c.padding, c.width-c.padding)
	c.rule(2 * s)
	c.space(6 * s)
}

// fields renders label/value pairs in two columns: bold label, wrapped value.
func (r *Renderer) fields(c *canvas, pairs [][2]string) {
	r.fieldColumn(c, c.width-c.padding, pairs)
}

func (r *Renderer) fieldColumn(c *canvas, right int, pairs [][2]string) {
	s := r.scale
	labelWidth := 170 * s
	for _, p := range pairs {
		top := c.y
		c.text(r.bold, p[0], c.padding, c.padding+labelWidth)
		labelBottom := c.y
		c.y = top
		c.text(r.body, orDash(p[1]), c.padding+labelWidth+8*s, right)
		if c.y < labelBottom {
			c.y = labelBottom
		}
		c.space(4 * s)
	}
}

// table renders a bordered grid with a bold header row. Columns share the
// available width evenly.
func (r *Renderer) table(c *canvas, headers []string, rows [][]string) {
	s := r.scale
	if len(rows) == 0 {
		c.text(r.body, "None", c.padding, c.width-c.padding)
		c.space(4 * s)
		return
	}

	left := c.padding
	right := c.width - c.padding
	colWidth := (right - left) / len(headers)
	cellPad := 4 * s

	drawRow := func(face font.Face, cells []string) {
		top := c.y
		bottom := top
		for i, cell := range cells {
			c.y = top + cellPad
			x := left + i*colWidth
			c.text(face, orDash(cell), x+cellPad, x+colWidth-cellPad)
			if c.y > bottom {
				bottom = c.y
			}
		}
		c.y = bottom + cellPad
		c.hline(left, right, c.y)
	}

	c.hline(left, right, c.y)
	drawRow(r.bold, headers)
	for _, row := range rows {
		drawRow(r.body, row)
	}
	c.space(8 * s)
}

// photoBox draws the portrait scaled to fit the 3:4 frame, or an empty frame
// when no photo is set.
func (c *canvas) photoBox(photo image.Image, x, y, w, h int) {
	c.strokeRect(x, y, w, h)
	if photo == nil || c.img == nil {
		return
	}
	dst := image.Rect(x+1, y+1, x+w-1, y+h-1)
	draw.CatmullRom.Scale(c.img, dst, photo, photo.Bounds(), draw.Src, nil)
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

// canvas tracks the layout cursor. With img nil it only measures.
type canvas struct {
	img     *image.RGBA
	width   int
	padding int
	y       int
}

var textColor = color.RGBA{A: 255}

// text draws s word-wrapped between left and right, advancing the cursor by
// the consumed height.
func (c *canvas) text(face font.Face, s string, left, right int) {
	metrics := face.Metrics()
	lineHeight := (metrics.Height + metrics.Height/4).Ceil()
	ascent := metrics.Ascent.Ceil()
	maxWidth := fixed.I(right - left)

	for _, line := range wrap(face, s, maxWidth) {
		if c.img != nil {
			d := font.Drawer{
				Dst:  c.img,
				Src:  image.NewUniform(textColor),
				Face: face,
				Dot:  fixed.P(left, c.y+ascent),
			}
			d.DrawString(line)
		}
		c.y += lineHeight
	}
}

// textCentered draws a single line centered on the page.
func (c *canvas) textCentered(face font.Face, s string) {
	w := font.MeasureString(face, s).Ceil()
	left := (c.width - w) / 2
	c.text(face, s, left, c.width)
}

func (c *canvas) space(h int) { c.y += h }

// rule draws a horizontal line under the cursor and advances past it.
func (c *canvas) rule(gap int) {
	c.hline(c.padding, c.width-c.padding, c.y+gap/2)
	c.y += gap
}

func (c *canvas) hline(x0, x1, y int) {
	if c.img == nil {
		return
	}
	for x := x0; x < x1; x++ {
		c.img.Set(x, y, textColor)
	}
}

func (c *canvas) strokeRect(x, y, w, h int) {
	if c.img == nil {
		return
	}
	for i := x; i < x+w; i++ {
		c.img.Set(i, y, textColor)
		c.img.Set(i, y+h-1, textColor)
	}
	for j := y; j < y+h; j++ {
		c.img.Set(x, j, textColor)
		c.img.Set(x+w-1, j, textColor)
	}
}

// wrap splits s into lines no wider than maxWidth, breaking on spaces. A
// single word wider than the line is emitted as-is.
func wrap(face font.Face, s string, maxWidth fixed.Int26_6) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
