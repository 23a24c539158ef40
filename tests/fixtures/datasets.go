package fixtures

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"drug-pipeline/internal/domain/entity"
)

// drugPool holds real ATC-coded drugs; generation cycles through it so
// generated datasets stay recognizable in test failures.
var drugPool = []entity.Drug{
	{ID: "A04AD", Name: "DIPHENHYDRAMINE"},
	{ID: "S03AA", Name: "TETRACYCLINE"},
	{ID: "V03AB", Name: "ETHANOL"},
	{ID: "A03BA", Name: "ATROPINE"},
	{ID: "A01AD", Name: "EPINEPHRINE"},
	{ID: "6302001", Name: "ISOPRENALINE"},
	{ID: "R01AD", Name: "BETAMETHASONE"},
	{ID: "N02BA", Name: "ASPIRIN"},
}

var journalPool = []string{
	"Journal of emergency nursing",
	"The journal of allergy and clinical immunology. In practice",
	"The Journal of pediatrics",
	"Psychopharmacology",
	"American journal of veterinary research",
	"Journal of food protection",
	"Hôpitaux Universitaires de Genève",
	"The journal of maternal-fetal & neonatal medicine",
}

// titleForms are sentence templates with one slot for a drug name.
var titleForms = []string{
	"Use of %s as adjuvant therapy",
	"%s in the treatment of seasonal allergic rhinitis",
	"Comparison of pressure release and %s patches",
	"Preemptive infiltration of %s in elective surgery",
	"Effects of topical %s on wound healing",
	"A randomized trial of %s for acute sinusitis",
}

// GenerateDrugs returns n drugs cycling through the fixed pool. Generation is
// deterministic: the same n always yields the same drugs, and identifiers are
// unique even past the pool size.
//
// Example:
//
//	drugs := GenerateDrugs(100)
func GenerateDrugs(n int) []entity.Drug {
	drugs := make([]entity.Drug, n)
	for i := 0; i < n; i++ {
		d := drugPool[i%len(drugPool)]
		if i >= len(drugPool) {
			d.ID = fmt.Sprintf("%s%02d", d.ID, i/len(drugPool))
		}
		drugs[i] = d
	}
	return drugs
}

// GenerateMentions returns n deterministic mentions tagged with origin. Every
// title embeds one pool drug name, so reconciling GenerateDrugs output against
// GenerateMentions output is guaranteed to produce matches.
//
// Example:
//
//	pubmed := GenerateMentions(50, entity.OriginPubMedJSON)
//	clinical := GenerateMentions(20, entity.OriginClinicalTrials)
func GenerateMentions(n int, origin entity.Origin) []entity.Mention {
	mentions := make([]entity.Mention, n)
	for i := 0; i < n; i++ {
		drug := drugPool[i%len(drugPool)]
		m := entity.Mention{
			ID:      strconv.Itoa(i + 1),
			Title:   fmt.Sprintf(titleForms[i%len(titleForms)], drug.Name),
			Journal: journalPool[i%len(journalPool)],
			Date:    fmt.Sprintf("2020-%02d-%02d", 1+i%12, 1+i%28),
			Origin:  origin,
		}
		if origin == entity.OriginClinicalTrials {
			m.ID = fmt.Sprintf("NCT%08d", 4189000+i)
		}
		mentions[i] = m
	}
	return mentions
}

// DrugsCSV encodes drugs as the raw drugs extract: an atccode,drug header
// followed by one row per drug.
func DrugsCSV(drugs []entity.Drug) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"atccode", "drug"})
	for _, d := range drugs {
		_ = w.Write([]string{d.ID, d.Name})
	}
	w.Flush()
	return buf.Bytes()
}

// PubMedJSON encodes mentions as the raw PubMed JSON extract: one indented
// array of objects with id, title, journal and date fields.
func PubMedJSON(mentions []entity.Mention) []byte {
	records := make([]entity.RawRecord, len(mentions))
	for i, m := range mentions {
		records[i] = m.Record()
	}
	data, _ := json.MarshalIndent(records, "", "  ")
	return data
}

// PubMedCSV encodes mentions as the raw PubMed CSV extract.
func PubMedCSV(mentions []entity.Mention) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "title", "date", "journal"})
	for _, m := range mentions {
		_ = w.Write([]string{m.ID, m.Title, m.Date, m.Journal})
	}
	w.Flush()
	return buf.Bytes()
}

// ClinicalTrialsCSV encodes mentions as the raw clinical-trials extract,
// which carries the title under the scientific_title column.
func ClinicalTrialsCSV(mentions []entity.Mention) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "scientific_title", "date", "journal"})
	for _, m := range mentions {
		_ = w.Write([]string{m.ID, m.Title, m.Date, m.Journal})
	}
	w.Flush()
	return buf.Bytes()
}
