package config

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Identifier codec", func() {
	It("should round-trip every valid configuration", func() {
		cases := []Config{
			New(3, 1, 3, 3, 1, 3),
			New(5, 2, 8, 8, 4, 16),
			New(7, 1, 128, 128, 64, 64).WithPadding(0),
			New(2, 2, 4, 6, 3, 9),
		}
		for _, c := range cases {
			decoded, err := ParseIdent(c.Ident())
			Expect(err).ToNot(HaveOccurred())
			Expect(decoded).To(Equal(c))
		}
	})

	It("should encode in the canonical field order", func() {
		c := New(3, 1, 3, 3, 1, 3)
		Expect(c.Ident()).To(Equal("K3_S1_H3_W3_CI1_CO3_P2"))
	})

	It("should reject strings off the canonical grammar", func() {
		bad := []string{
			"",
			"K3_S1_H3_W3_CI1_CO3",        // missing P
			"S1_K3_H3_W3_CI1_CO3_P2",     // wrong field order
			"K3_S1_H3_W3_CI1_CO3_P2_X1",  // trailing junk
			"K3_S1_H3_W3_CI1_CO3_P-1",    // negative field
			"k3_s1_h3_w3_ci1_co3_p2",     // lower case
			"deconv_3x3_in1_out3_k3_s1_p2", // data-base form
		}
		for _, s := range bad {
			_, err := ParseIdent(s)
			Expect(err).To(HaveOccurred(), "input %q", s)

			var parseErr *ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
		}
	})

	It("should never map two distinct configurations to one identifier", func() {
		a := New(3, 1, 13, 3, 1, 3)
		b := New(3, 1, 1, 33, 1, 3)
		Expect(a.Ident()).ToNot(Equal(b.Ident()))
	})

	It("should round-trip the experimental data basename", func() {
		c := New(3, 1, 3, 3, 1, 3)
		Expect(c.DataBase()).To(Equal("deconv_3x3_in1_out3_k3_s1_p2"))

		decoded, err := ParseDataBase(c.DataBase())
		Expect(err).ToNot(HaveOccurred())
		Expect(decoded).To(Equal(c))
	})

	It("should split and rebuild the variant suffix", func() {
		Expect(VariantSuffix(2, 4)).To(Equal("_PE2_SIMD4"))

		base, pe, simd, err := SplitVariantSuffix("deconv_3x3_in1_out3_k3_s1_p2_output_hls_PE1_SIMD1")
		Expect(err).ToNot(HaveOccurred())
		Expect(base).To(Equal("deconv_3x3_in1_out3_k3_s1_p2_output_hls"))
		Expect(pe).To(Equal(1))
		Expect(simd).To(Equal(1))

		_, _, _, err = SplitVariantSuffix("deconv_3x3_in1_out3_k3_s1_p2_output")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Variant enumeration", func() {
	It("should always lead with the trivial variant", func() {
		for _, c := range []Config{
			New(3, 1, 3, 3, 1, 3),
			New(3, 1, 8, 8, 4, 6),
			New(5, 1, 16, 16, 1, 1),
		} {
			variants := Variants(c, 0, 0)
			Expect(variants).ToNot(BeEmpty())
			Expect(variants[0].PE).To(Equal(1))
			Expect(variants[0].SIMD).To(Equal(1))
		}
	})

	It("should enumerate divisor pairs of (CO, CI) in ascending order", func() {
		c := New(3, 1, 3, 3, 1, 3)
		variants := Variants(c, 0, 0)
		Expect(variants).To(HaveLen(2))
		Expect(variants[0].PE).To(Equal(1))
		Expect(variants[1].PE).To(Equal(3))
		for _, v := range variants {
			Expect(v.SIMD).To(Equal(1))
			Expect(c.CO % v.PE).To(BeZero())
		}
	})

	It("should honor the per-axis caps", func() {
		c := New(3, 1, 8, 8, 4, 12) // CO divisors 1,2,3,4,6,12; CI divisors 1,2,4
		variants := Variants(c, 3, 2)
		Expect(variants).To(HaveLen(6))
		Expect(variants[len(variants)-1].PE).To(Equal(3))
		Expect(variants[len(variants)-1].SIMD).To(Equal(2))
	})

	It("should size the kernel table per variant", func() {
		c := New(3, 1, 3, 3, 1, 3)
		full := Variants(c, 0, 0)
		Expect(full[0].KernelOuterDim()).To(Equal(27))
		Expect(full[1].KernelOuterDim()).To(Equal(9))
		for _, v := range full {
			Expect(v.KernelElems()).To(Equal(27))
		}
	})
})

var _ = Describe("Config validation", func() {
	It("should flag a negative derived padding instead of clamping", func() {
		c := New(3, 5, 8, 8, 1, 1) // S > K
		err := c.Validate()
		Expect(err).To(HaveOccurred())

		var vErr *ValidationError
		Expect(errors.As(err, &vErr)).To(BeTrue())
	})

	It("should reject zero channel counts", func() {
		Expect(New(3, 1, 8, 8, 0, 3).Validate()).To(HaveOccurred())
		Expect(New(3, 1, 8, 8, 3, 0).Validate()).To(HaveOccurred())
	})

	It("should keep an explicitly supplied padding", func() {
		c := New(3, 1, 8, 8, 1, 1).WithPadding(1)
		Expect(c.P).To(Equal(1))
		Expect(c.Validate()).To(Succeed())
	})
})
