package repositories

import (
	"strings"

	"github.com/yigit/vacantes/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	AccountRepository     *AccountRepository
	VacancyRepository     *VacancyRepository
	ApplicationRepository *ApplicationRepository
	AssociationRepository *AssociationRepository
	MessageRepository     *MessageRepository
}

// NewRepositories initializes all repositories. Every repository resolves
// its connection per call, so statements join a unit of work when the
// context carries one.
func NewRepositories(conn db.ConnProvider) *Repositories {
	return &Repositories{
		AccountRepository:     NewAccountRepository(conn),
		VacancyRepository:     NewVacancyRepository(conn),
		ApplicationRepository: NewApplicationRepository(conn),
		AssociationRepository: NewAssociationRepository(conn),
		MessageRepository:     NewMessageRepository(conn),
	}
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
