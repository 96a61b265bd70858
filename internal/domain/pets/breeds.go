package pets

import "strings"

// MinDangerousBreedFee es la tasa mínima que el formulario sugiere para
// razas peligrosas. Solo es una pista de UI: la validación del comprobante
// exige monto > 0, no este mínimo.
const MinDangerousBreedFee = 52.20

// dangerousBreeds es el padrón fijo de razas consideradas potencialmente
// peligrosas por la ordenanza municipal.
var dangerousBreeds = []string{
	"Pitbull",
	"American Pit Bull Terrier",
	"American Staffordshire Terrier",
	"Staffordshire Bull Terrier",
	"Bull Terrier",
	"Dogo Argentino",
	"Fila Brasileiro",
	"Tosa Inu",
	"Rottweiler",
	"Doberman",
	"Bullmastiff",
	"Dogo de Burdeos",
	"Mastin Napolitano",
	"Presa Canario",
	"Akita Inu",
}

// IsDangerousBreed matchea por contención de substring en ambos sentidos,
// case-insensitive y con trim. Es deliberadamente permisivo: entradas muy
// cortas pueden sobre-matchear ("bull" matchea varias razas del padrón).
// El gate de compliance depende de este comportamiento exacto.
func IsDangerousBreed(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}

	for _, b := range dangerousBreeds {
		entry := strings.ToLower(b)
		if strings.Contains(entry, name) || strings.Contains(name, entry) {
			return true
		}
	}
	return false
}

// DangerousBreeds devuelve una copia del padrón (para la capa de presentación).
func DangerousBreeds() []string {
	out := make([]string, len(dangerousBreeds))
	copy(out, dangerousBreeds)
	return out
}
