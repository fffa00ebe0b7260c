// internal/intake/request-orchestrator/config.go
package requestorchestrator

type Config struct {
	PsychometricMin int
	PsychometricMax int
}

func LoadConfig() *Config {
	return &Config{
		PsychometricMin: 200,
		PsychometricMax: 800,
	}
}
