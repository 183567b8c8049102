package pipeline

import "testing"

func TestAugment(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "elbow then pvc", input: "PVC Elbow 90deg Qty:100", want: "pvc elbow 90deg qty:100 elbow pvc"},
		{name: "no keywords", input: "Brass Nut M8", want: "brass nut m8"},
		{name: "single append per keyword", input: "Valve valve VALVE", want: "valve valve valve valve"},
		{name: "vocabulary order", input: "valve adapter pipe tee", want: "valve adapter pipe tee tee adapter pipe valve"},
		{name: "substring fires", input: "Steel bolts M8 x 40", want: "steel bolts m8 x 40 tee"},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Augment(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestAugmentDeterministic(t *testing.T) {
	in := "PVC union coupling 2in"
	if Augment(in) != Augment(in) {
		t.Fatal("not deterministic")
	}
}
