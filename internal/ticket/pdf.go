package ticket

import (
    "bytes"
    "fmt"
    "image/png"
    "strings"
    "time"

    "github.com/signintech/gopdf"
)

// Details carries everything printed on a ticket.
type Details struct {
    Reference   string
    MovieTitle  string
    TheaterName string
    ShowTime    time.Time
    Seats       []string
    TotalCents  uint32
    BookingTime time.Time
}

// PDFGenerator renders tickets with a TTF font loaded from fontPath.
type PDFGenerator struct {
    fontPath string
}

// NewPDFGenerator returns a generator using the font at fontPath.
func NewPDFGenerator(fontPath string) *PDFGenerator {
    return &PDFGenerator{fontPath: fontPath}
}

// Generate renders the ticket as an A4 PDF: header, booking details,
// the QR code and a footer.
func (g *PDFGenerator) Generate(d Details, qrCode []byte) ([]byte, error) {
    pdf := &gopdf.GoPdf{}
    pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
    pdf.AddPage()

    if err := pdf.AddTTFFont("ticket", g.fontPath); err != nil {
        return nil, fmt.Errorf("failed to load font: %w", err)
    }
    if err := pdf.SetFont("ticket", "", 14); err != nil {
        return nil, fmt.Errorf("failed to set font: %w", err)
    }

    addHeader(pdf)

    pdf.SetY(60)
    addBookingInfo(pdf, d)

    if len(qrCode) > 0 {
        pdf.SetY(pdf.GetY() + 20)
        addQRCode(pdf, qrCode)
    }

    pdf.SetY(260)
    addFooter(pdf)

    var buf bytes.Buffer
    if err := pdf.Write(&buf); err != nil {
        return nil, fmt.Errorf("failed to write PDF: %w", err)
    }
    return buf.Bytes(), nil
}

func addHeader(pdf *gopdf.GoPdf) {
    pdf.SetX(40)
    pdf.SetY(30)
    pdf.Cell(nil, "MOVIE TICKET")
}

func addBookingInfo(pdf *gopdf.GoPdf, d Details) {
    info := []struct {
        Label string
        Value string
    }{
        {"Reference", d.Reference},
        {"Movie", d.MovieTitle},
        {"Theater", d.TheaterName},
        {"Show Time", d.ShowTime.Format("2006-01-02 03:04 PM")},
        {"Seats", strings.Join(d.Seats, ", ")},
        {"Total", fmt.Sprintf("%.2f", float64(d.TotalCents)/100)},
        {"Booked At", d.BookingTime.Format("2006-01-02 15:04")},
    }

    for _, item := range info {
        pdf.SetX(40)
        pdf.Cell(nil, item.Label+": "+item.Value)
        pdf.Br(20)
    }
}

func addQRCode(pdf *gopdf.GoPdf, qrCode []byte) {
    img, err := png.Decode(bytes.NewReader(qrCode))
    if err != nil {
        pdf.Cell(nil, "Failed to load QR code")
        return
    }

    rect := &gopdf.Rect{W: 100, H: 100}
    if err := pdf.ImageFrom(img, 100, pdf.GetY(), rect); err != nil {
        pdf.Cell(nil, "Failed to draw QR code")
    }
}

func addFooter(pdf *gopdf.GoPdf) {
    pdf.SetX(50)
    pdf.Cell(nil, "Please arrive 15 minutes before the show. Enjoy the movie!")
}
