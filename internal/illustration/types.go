package illustration

import "time"

// Request describes one key moment worth illustrating.
type Request struct {
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	Moment        string    `json:"key_moment"`
	Scene         string    `json:"scene"`
	Prompt        string    `json:"prompt"`
	CharacterName string    `json:"character_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Target struct {
	Platform string   `json:"platform"`
	Endpoint string   `json:"endpoint"`
	Secret   string   `json:"secret"`
	Moments  []string `json:"moments"`
	Enabled  bool     `json:"enabled"`
}

func (t Target) accepts(moment string) bool {
	if len(t.Moments) == 0 {
		return true
	}
	for _, m := range t.Moments {
		if m == moment {
			return true
		}
	}
	return false
}

type Config struct {
	Enabled             bool
	Targets             []Target
	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	RequestTimeout      time.Duration
	DispatchBuffer      int
}

type pushJob struct {
	Target  Target
	Request Request
	Attempt int
}

func (j pushJob) key() string {
	return targetKey(j.Target)
}

func targetKey(t Target) string {
	return t.Platform + "|" + t.Endpoint
}
