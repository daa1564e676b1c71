package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var probes = [...]Point3{
	{X: 1, Y: 2, Z: 3},
	{X: -7, Y: 0, Z: 11},
	{X: 404, Y: -588, Z: -901},
	{X: 0, Y: 0, Z: 0},
	{X: 5, Y: 5, Z: -5},
}

func TestCheckRotations(t *testing.T) {
	require.NoError(t, CheckRotations())
}

func TestRotations_PreserveNorm(t *testing.T) {
	for _, p := range probes {
		for i, img := range Rotations(p) {
			assert.Equal(t, p.NormSquared(), img.NormSquared(), "rotation %d of %v", i, p)
		}
	}
}

func TestRotations_PairwiseDistinct(t *testing.T) {
	// Two rotations are the same function only if they agree on every probe.
	seqs := make(map[[len(probes)]Point3]Rotation)
	for _, r := range AllRotations() {
		var seq [len(probes)]Point3
		for i, p := range probes {
			seq[i] = r.Apply(p)
		}
		if prev, dup := seqs[seq]; dup {
			t.Fatalf("rotation %d %s and %d %s agree on all probes", r, r, prev, prev)
		}
		seqs[seq] = r
	}
	assert.Len(t, seqs, NumRotations)
}

func TestRotations_TableOrderIsStable(t *testing.T) {
	p := Point3{X: 1, Y: 2, Z: 3}
	imgs := Rotations(p)
	for i, r := range AllRotations() {
		assert.Equal(t, r.Apply(p), imgs[i])
	}
	assert.Equal(t, Point3{X: -1, Y: -2, Z: 3}, imgs[0])
	assert.Equal(t, p, imgs[Identity])
	assert.Equal(t, Point3{X: 3, Y: 2, Z: -1}, imgs[23])
}

func TestRotation_Identity(t *testing.T) {
	assert.True(t, Identity.IsIdentity())
	assert.Equal(t, "(x,y,z)", Identity.String())
	for _, p := range probes {
		assert.Equal(t, p, Identity.Apply(p))
	}
}

func TestRotation_Inverse(t *testing.T) {
	for _, r := range AllRotations() {
		inv := r.Inverse()
		for _, p := range probes {
			assert.Equal(t, p, inv.Apply(r.Apply(p)), "rotation %s inverse %s", r, inv)
		}
	}
	assert.Equal(t, Identity, Identity.Inverse())
}

func TestRotation_MatrixMatchesApply(t *testing.T) {
	for _, r := range AllRotations() {
		m := r.Matrix()
		for _, p := range probes {
			v := mat.NewVecDense(3, []float64{float64(p.X), float64(p.Y), float64(p.Z)})
			var out mat.VecDense
			out.MulVec(m, v)
			want := r.Apply(p)
			assert.Equal(t, float64(want.X), out.AtVec(0), "rotation %s", r)
			assert.Equal(t, float64(want.Y), out.AtVec(1), "rotation %s", r)
			assert.Equal(t, float64(want.Z), out.AtVec(2), "rotation %s", r)
		}
	}
}

func TestRotation_String(t *testing.T) {
	tests := []struct {
		r    Rotation
		want string
	}{
		{0, "(-x,-y,z)"},
		{7, "(-y,z,-x)"},
		{22, "(z,x,y)"},
		{-1, "Rotation(-1)"},
		{24, "Rotation(24)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.String())
		})
	}
}
