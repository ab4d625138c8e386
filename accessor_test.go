package singleton_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andriiyaremenko/singleton"
)

var _ = Describe("ReferenceAccessor", func() {
	BeforeEach(func() {
		clearConnectionPools()
		broadcastRef.Store(nil)
	})

	Context("custom keyed storage", func() {
		It("should keep one instance per key", func() {
			in := singleton.New()

			alpha1, err := singleton.Construct[*ConnectionPool](in, newConnectionPool, "alpha")

			Expect(err).ShouldNot(HaveOccurred())

			beta, err := singleton.Construct[*ConnectionPool](in, newConnectionPool, "beta")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(alpha1).NotTo(BeIdenticalTo(beta))

			alpha2, err := singleton.Construct[*ConnectionPool](in, newConnectionPool, "alpha")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(alpha2).To(BeIdenticalTo(alpha1))
		})

		It("should detach only the instance's own key", func() {
			in := singleton.New()

			alpha1, err := singleton.Construct[*ConnectionPool](in, newConnectionPool, "alpha")

			Expect(err).ShouldNot(HaveOccurred())

			beta1, err := singleton.Construct[*ConnectionPool](in, newConnectionPool, "beta")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(in.Detach(alpha1)).To(Succeed())

			alpha2, err := singleton.Construct[*ConnectionPool](in, newConnectionPool, "alpha")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(alpha2).NotTo(BeIdenticalTo(alpha1))

			beta2, err := singleton.Construct[*ConnectionPool](in, newConnectionPool, "beta")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(beta2).To(BeIdenticalTo(beta1))
		})
	})

	Context("storage shared across a type family", func() {
		It("should return the identical instance for every family member", func() {
			in := singleton.New()

			base, err := in.GetOrCreate(newBroadcast, "alerts")

			Expect(err).ShouldNot(HaveOccurred())

			derived, err := in.GetOrCreate(newPriorityBroadcast, "alerts", 1)

			Expect(err).ShouldNot(HaveOccurred())
			Expect(derived).To(BeIdenticalTo(base))

			again, err := in.GetOrCreate(newBroadcast, "alerts")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(again).To(BeIdenticalTo(base))
		})

		It("should share the slot regardless of which member constructed first", func() {
			in := singleton.New()

			derived, err := in.GetOrCreate(newPriorityBroadcast, "alerts", 1)

			Expect(err).ShouldNot(HaveOccurred())

			base, err := in.GetOrCreate(newBroadcast, "alerts")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(base).To(BeIdenticalTo(derived))
		})

		It("should free the whole family on detach", func() {
			in := singleton.New()

			base, err := in.GetOrCreate(newBroadcast, "alerts")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(in.Detach(base)).To(Succeed())

			derived, err := in.GetOrCreate(newPriorityBroadcast, "alerts", 1)

			Expect(err).ShouldNot(HaveOccurred())
			Expect(derived).NotTo(BeIdenticalTo(base))
		})
	})

	Context("configuration errors", func() {
		It("should fail construction of a type with a partial accessor trio", func() {
			in := singleton.New()

			_, err := in.GetOrCreate(newHalfKeyedService, "x")

			Expect(err).Should(HaveOccurred())
			Expect(err).Should(BeAssignableToTypeOf(new(singleton.AccessorImplError)))

			var implErr *singleton.AccessorImplError
			Expect(errors.As(err, &implErr)).To(BeTrue())
			Expect(implErr.Missing).To(ConsistOf("DetachRef"))
		})

		It("should fail construction of a type with malformed accessor signatures", func() {
			in := singleton.New()

			_, err := in.GetOrCreate(newMalformedService)

			Expect(err).Should(HaveOccurred())
			Expect(err).Should(BeAssignableToTypeOf(new(singleton.AccessorImplError)))

			var implErr *singleton.AccessorImplError
			Expect(errors.As(err, &implErr)).To(BeTrue())
			Expect(implErr.Missing).To(BeEmpty())
		})

		It("should report configuration errors eagerly through CheckType", func() {
			in := singleton.New()

			Expect(singleton.CheckType[*halfKeyedService](in)).Should(
				BeAssignableToTypeOf(new(singleton.AccessorImplError)))
			Expect(singleton.CheckType[*Hero](in)).To(Succeed())
			Expect(singleton.CheckType[*ConnectionPool](in)).To(Succeed())
			Expect(singleton.CheckType[NameService](in)).To(Succeed())
		})
	})

	Context("accessor failures", func() {
		It("should propagate a store error and not hide the cause", func() {
			in := singleton.New()

			_, err := in.GetOrCreate(newRejectedService)

			Expect(err).Should(HaveOccurred())
			Expect(err).Should(BeAssignableToTypeOf(new(singleton.AccessorError)))
			Expect(errors.Is(err, errStoreRejected)).To(BeTrue())
		})
	})
})
