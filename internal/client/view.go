package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	bannerLoadFailed   = "Error loading products: "
	bannerCreateFailed = "Error adding product: "
	bannerFillBoth     = "Please fill in both name and category"

	textLoading     = "Loading products..."
	textEmpty       = "No products yet. Add your first product above."
	textInvalidDate = "Invalid Date"
)

// Form holds the raw input fields of the add-product form.
type Form struct {
	Name     string
	Category string
}

// ProductAPI is the part of Client the view depends on.
type ProductAPI interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, name, category string) (*Product, error)
}

// View is the client-side state of the catalog screen: the product list, the form,
// one error banner and a loading flag. It is not safe for concurrent use.
type View struct {
	api      ProductAPI
	location *time.Location

	products []Product
	form     Form
	banner   string
	loading  bool
}

type ViewOption func(*View)

// WithLocation sets the time zone creation dates are displayed in.
func WithLocation(loc *time.Location) ViewOption {
	return func(v *View) {
		if loc != nil {
			v.location = loc
		}
	}
}

func NewView(api ProductAPI, opts ...ViewOption) *View {
	v := &View{
		api:      api,
		location: time.Local,
		products: []Product{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount loads the product list.
func (v *View) Mount(ctx context.Context) {
	v.loading = true
	defer func() { v.loading = false }()

	products, err := v.api.ListProducts(ctx)
	if err != nil {
		v.banner = bannerLoadFailed + err.Error()
		return
	}
	v.products = products
	v.banner = ""
}

func (v *View) SetName(name string) {
	v.form.Name = name
}

func (v *View) SetCategory(category string) {
	v.form.Category = category
}

// Submit sends the form. Both fields must be non-blank; otherwise only the banner changes.
// On success the created product is appended and the form is reset.
func (v *View) Submit(ctx context.Context) {
	name := strings.TrimSpace(v.form.Name)
	category := strings.TrimSpace(v.form.Category)
	if name == "" || category == "" {
		v.banner = bannerFillBoth
		return
	}

	v.loading = true
	v.banner = ""
	defer func() { v.loading = false }()

	product, err := v.api.CreateProduct(ctx, name, category)
	if err != nil {
		v.banner = bannerCreateFailed + err.Error()
		return
	}
	v.products = append(v.products, *product)
	v.form = Form{}
}

// Render writes the banner and the product list as text.
func (v *View) Render(w io.Writer) error {
	var b strings.Builder
	if v.banner != "" {
		b.WriteString(v.banner)
		b.WriteString("\n")
	}

	switch {
	case len(v.products) == 0 && v.loading:
		b.WriteString(textLoading + "\n")
	case len(v.products) == 0:
		b.WriteString(textEmpty + "\n")
	default:
		for i, p := range v.products {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s\n", p.Name)
			fmt.Fprintf(&b, "  Category: %s\n", p.Category)
			fmt.Fprintf(&b, "  Created: %s\n", v.formatDate(p.CreatedAt))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatDate renders an RFC 3339 timestamp as a short he-IL date (D.M.YYYY).
func (v *View) formatDate(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil || t.IsZero() {
		return textInvalidDate
	}
	t = t.In(v.location)
	return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
}

func (v *View) Products() []Product {
	out := make([]Product, len(v.products))
	copy(out, v.products)
	return out
}

func (v *View) Form() Form {
	return v.form
}

// Banner returns the current error banner, empty when there is none.
func (v *View) Banner() string {
	return v.banner
}

func (v *View) Loading() bool {
	return v.loading
}
