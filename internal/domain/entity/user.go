package entity

import "time"

// Roles de usuario. admin pasa todos los chequeos RBAC; contable puede
// registrar movimientos de kardex y operar guías.
const (
	RoleAdmin       = "admin"
	RoleContable    = "contable"
	RoleProgramador = "programador"
)

// User representa una cuenta de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
