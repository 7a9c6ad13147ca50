package producer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/msomdec/edunews/internal/domain"
)

// DefaultSampleBaseURL prefixes the source URLs of generated articles.
const DefaultSampleBaseURL = "https://edunews.example.com/article"

type template struct {
	title   string
	content string
	summary string
	tags    []string
}

var sampleTemplates = []template{
	{
		title:   "JEE Main Registration Opens - Apply Now",
		content: "The National Testing Agency has announced the opening of registration for JEE Main. Students can register online on the official portal. The examination will be conducted in multiple sessions.",
		summary: "JEE Main registration is now open.",
		tags:    []string{"exam", "engineering", "JEE"},
	},
	{
		title:   "NEET Application Form Released",
		content: "The NEET application form is now available on the official website. Candidates must complete the registration process before the deadline. The examination date will be announced soon.",
		summary: "NEET application form released. Registration deadline approaching.",
		tags:    []string{"exam", "medical", "NEET"},
	},
	{
		title:   "UP Board Class 12 Results Declared",
		content: "The Uttar Pradesh Board has declared the Class 12 results. Students can check their results on the official website using their roll number and date of birth.",
		summary: "UP Board Class 12 results declared. Check online with roll number.",
		tags:    []string{"result", "board", "UP Board"},
	},
	{
		title:   "Merit-Based Scholarship for Engineering Students",
		content: "Applications are invited for merit-based scholarships for engineering students. Eligible candidates must have secured at least 80% marks in their previous examination. The scholarship amount is Rs. 50,000 per year.",
		summary: "Merit-based engineering scholarship. Rs. 50,000/year.",
		tags:    []string{"scholarship", "engineering", "merit"},
	},
	{
		title:   "CBSE Class 10 Board Exam Dates Announced",
		content: "The Central Board of Secondary Education has announced the dates for Class 10 board examinations. A detailed timetable will be released soon.",
		summary: "CBSE Class 10 board exam dates out. Timetable coming soon.",
		tags:    []string{"exam", "board", "CBSE"},
	},
	{
		title:   "New Scholarship Program for Underprivileged Students",
		content: "A new scholarship program has been launched to support underprivileged students pursuing higher education. The program covers tuition fees and provides a monthly stipend.",
		summary: "New scholarship for underprivileged students.",
		tags:    []string{"scholarship", "financial aid", "education"},
	},
	{
		title:   "GATE Admit Card Download Available",
		content: "The admit cards for GATE are now available for download. Candidates can access their admit cards from the official GATE website using their registration credentials.",
		summary: "GATE admit cards available for download.",
		tags:    []string{"exam", "GATE", "admit card"},
	},
	{
		title:   "ICSE Board Results Published",
		content: "The Council for the Indian School Certificate Examinations has published the ICSE board results. Students can check their results online.",
		summary: "ICSE board results published. Check online now.",
		tags:    []string{"result", "board", "ICSE"},
	},
}

// SampleProducer generates educational notices from built-in templates.
// Source URLs are derived from the current day and the position in the
// batch, so repeated runs on the same day produce the same URLs.
type SampleProducer struct {
	baseURL string
	count   int
	now     func() time.Time
	rng     *rand.Rand
}

type SampleOption func(*SampleProducer)

func WithBaseURL(base string) SampleOption {
	return func(p *SampleProducer) { p.baseURL = base }
}

func WithSampleClock(now func() time.Time) SampleOption {
	return func(p *SampleProducer) { p.now = now }
}

// WithRand sets the random source used to pick templates and publish dates.
func WithRand(rng *rand.Rand) SampleOption {
	return func(p *SampleProducer) { p.rng = rng }
}

// NewSampleProducer creates a producer emitting up to count articles per run.
// count is capped at the number of templates.
func NewSampleProducer(count int, opts ...SampleOption) *SampleProducer {
	p := &SampleProducer{
		baseURL: DefaultSampleBaseURL,
		count:   min(max(count, 0), len(sampleTemplates)),
		now:     time.Now,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SampleProducer) Name() string { return "sample" }

func (p *SampleProducer) Produce(ctx context.Context) ([]domain.CandidateArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.now()
	day := now.Format("20060102")
	picks := p.rng.Perm(len(sampleTemplates))[:p.count]

	out := make([]domain.CandidateArticle, 0, p.count)
	for i, idx := range picks {
		tpl := sampleTemplates[idx]
		summary := tpl.summary
		daysAgo := p.rng.IntN(31)
		out = append(out, domain.CandidateArticle{
			Title:       tpl.title,
			Content:     tpl.content,
			SourceURL:   fmt.Sprintf("%s/%s-%d", p.baseURL, day, i+1),
			Summary:     &summary,
			Tags:        append([]string(nil), tpl.tags...),
			PublishedAt: now.AddDate(0, 0, -daysAgo),
		})
	}
	return out, nil
}
