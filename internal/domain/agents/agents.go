package agents

import "fmt"

// Role enum
type Role string

const (
	RoleVerifier Role = "verifier"
	RoleAnalyst  Role = "analyst"
	RoleAdvisor  Role = "advisor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVerifier, RoleAnalyst, RoleAdvisor:
		return true
	}
	return false
}

// Agent adalah konfigurasi satu peran; semua field eksplisit,
// bukan map bebas seperti konfigurasi prompt pada umumnya.
type Agent struct {
	Role      Role   `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// Task satu langkah pipeline, dikerjakan oleh agent dengan Role yang sama
type Task struct {
	Role           Role   `yaml:"role"`
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

// Crew kumpulan agent + urutan task
type Crew struct {
	Agents []Agent `yaml:"agents"`
	Tasks  []Task  `yaml:"tasks"`
}

// AgentFor cari agent untuk sebuah role; nil kalau tidak ada
func (c Crew) AgentFor(role Role) *Agent {
	for i := range c.Agents {
		if c.Agents[i].Role == role {
			return &c.Agents[i]
		}
	}
	return nil
}

// Validate pastikan konfigurasi crew lengkap sebelum dipakai
func (c Crew) Validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("crew has no tasks")
	}
	for _, a := range c.Agents {
		if !a.Role.Valid() {
			return fmt.Errorf("unknown agent role: %q", a.Role)
		}
		if a.Goal == "" {
			return fmt.Errorf("agent %s: goal is required", a.Role)
		}
	}
	for i, t := range c.Tasks {
		if !t.Role.Valid() {
			return fmt.Errorf("task %d: unknown role %q", i, t.Role)
		}
		if t.Description == "" {
			return fmt.Errorf("task %d: description is required", i)
		}
		if c.AgentFor(t.Role) == nil {
			return fmt.Errorf("task %d: no agent configured for role %s", i, t.Role)
		}
	}
	return nil
}

// Default crew untuk analisa dokumen finansial:
// verifikasi relevansi -> analisa angka -> rekomendasi.
func Default() Crew {
	return Crew{
		Agents: []Agent{
			{
				Role:      RoleVerifier,
				Goal:      "Confirm the uploaded document is a financial document relevant to the user's query.",
				Backstory: "A meticulous compliance officer who rejects documents that do not contain financial data.",
			},
			{
				Role:      RoleAnalyst,
				Goal:      "Extract the key figures, trends and anomalies from the document that answer the user's query.",
				Backstory: "A senior financial analyst with a decade of experience reading filings and earnings reports.",
			},
			{
				Role:      RoleAdvisor,
				Goal:      "Turn the analysis into a clear narrative with concrete, prioritized recommendations.",
				Backstory: "An investment advisor who explains numbers to non-specialists without losing precision.",
			},
		},
		Tasks: []Task{
			{
				Role:           RoleVerifier,
				Description:    "Check whether the document contains financial content relevant to the query. State what kind of document it is and which sections matter.",
				ExpectedOutput: "A short relevance assessment naming the document type and the relevant sections.",
			},
			{
				Role:           RoleAnalyst,
				Description:    "Using the verifier's assessment, analyze the document's figures with respect to the query: totals, trends, period-over-period changes, outliers.",
				ExpectedOutput: "A structured analysis of the figures that answer the query, with the numbers cited.",
			},
			{
				Role:           RoleAdvisor,
				Description:    "Write the final answer for the user: a narrative summary of the analysis followed by actionable recommendations.",
				ExpectedOutput: "A narrative answer to the query ending with a numbered list of recommendations.",
			},
		},
	}
}
