package service

// SystemService handles system-related operations
type SystemService struct {
	ping func() error
}

// NewSystemService creates a new SystemService around the catalog's
// reachability check.
func NewSystemService(ping func() error) *SystemService {
	return &SystemService{
		ping: ping,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return s.ping()
}
