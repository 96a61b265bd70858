package pets

import "testing"

func TestIsDangerousBreed_MatchesRegistry(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"pitbull", true},
		{"Pitbull", true},
		{"  Rottweiler  ", true},
		{"rottweiler", true},
		{"Dogo Argentino", true},
		{"akita inu", true},
		// el match es bidireccional: la entrada puede contener a la raza
		{"perro rottweiler adulto", true},
		// entradas cortas sobre-matchean, comportamiento deliberado
		{"bull", true},
		{"golden retriever", false},
		{"labrador", false},
		{"", false},
		{"   ", false},
	}

	for _, c := range cases {
		if got := IsDangerousBreed(c.name); got != c.want {
			t.Errorf("IsDangerousBreed(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDangerousBreeds_ReturnsCopy(t *testing.T) {
	a := DangerousBreeds()
	if len(a) == 0 {
		t.Fatalf("expected non-empty registry")
	}
	a[0] = "mutated"

	b := DangerousBreeds()
	if b[0] == "mutated" {
		t.Fatalf("expected DangerousBreeds to return a copy")
	}
}
