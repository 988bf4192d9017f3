package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
)

var (
	//go:embed template/banner.txt
	bannerRaw string

	//go:embed template/need_model.txt
	needModelRaw string

	//go:embed template/part_not_found.txt
	partNotFoundRaw string

	//go:embed template/diagram_offer.txt
	diagramOfferRaw string

	//go:embed template/fallback.txt
	fallbackRaw string

	//go:embed template/model_selected.tmpl
	modelSelectedRaw string

	//go:embed template/part_details.tmpl
	partDetailsRaw string

	//go:embed template/price.tmpl
	priceRaw string
)

// ReplySet holds the bot's fixed replies and the templates for the replies
// that carry data. The wording is relied on by downstream consumers, so the
// templates are reproduced exactly.
type ReplySet struct {
	Banner       string
	NeedModel    string
	PartNotFound string
	DiagramOffer string
	Fallback     string

	modelSelected *template.Template
	partDetails   *template.Template
	price         *template.Template
}

// LoadReplySet returns a ReplySet with trimmed strings and parsed templates.
func LoadReplySet() (*ReplySet, error) {
	rs := &ReplySet{
		Banner:       strings.TrimSpace(bannerRaw),
		NeedModel:    strings.TrimSpace(needModelRaw),
		PartNotFound: strings.TrimSpace(partNotFoundRaw),
		DiagramOffer: strings.TrimSpace(diagramOfferRaw),
		Fallback:     strings.TrimSpace(fallbackRaw),
	}

	var err error
	if rs.modelSelected, err = parse("model_selected", modelSelectedRaw); err != nil {
		return nil, err
	}
	if rs.partDetails, err = parse("part_details", partDetailsRaw); err != nil {
		return nil, err
	}
	if rs.price, err = parse("price", priceRaw); err != nil {
		return nil, err
	}
	return rs, nil
}

func MustLoadReplySet() *ReplySet {
	rs, err := LoadReplySet()
	if err != nil {
		panic(err)
	}
	return rs
}

func parse(name, raw string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse reply template %s: %w", name, err)
	}
	return tmpl, nil
}

// ModelSelected confirms a set-model turn.
func (r *ReplySet) ModelSelected(modelNumber string) (string, error) {
	return render(r.modelSelected, modelNumber)
}

// PartDetails renders a found part: number, type, year, price, then the
// diagram prompt.
func (r *ReplySet) PartDetails(part contractx.PartRecord) (string, error) {
	return render(r.partDetails, part)
}

// Price renders the price line with two decimals.
func (r *ReplySet) Price(price float64) (string, error) {
	return render(r.price, price)
}

func render(tmpl *template.Template, data any) (string, error) {
	if tmpl == nil {
		return "", fmt.Errorf("%w: reply template is not loaded", contractx.ErrValidation)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}
