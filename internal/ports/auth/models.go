package auth

// Claims representa la identidad extraída del token.
// Role viene como string del colaborador de autenticación
// (owner|seguimiento|admin|super_admin); cada dominio decide si alcanza.
type Claims struct {
	UserID       string
	Role         string
	EmployeeCode string
}
