package builder

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"ddexcore/config"
	"ddexcore/ddexerr"
	"ddexcore/model"
)

func TestStreamingPhaseMachine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Streaming builder phase machine suite")
}

var _ = Describe("Streaming", func() {
	var s *Streaming

	BeforeEach(func() {
		s = NewStreaming(config.DefaultBuildOptions())
	})

	Describe("before StartMessage", func() {
		It("rejects WriteResource", func() {
			err := s.WriteResource(model.Resource{ResourceReference: "A1"})
			Expect(err).NotTo(BeNil())
			Expect(ddexerr.Is(err, ddexerr.CategoryPhase)).To(BeTrue())
		})

		It("rejects FinishResourcesStartReleases", func() {
			err := s.FinishResourcesStartReleases()
			Expect(err).NotTo(BeNil())
			Expect(ddexerr.Is(err, ddexerr.CategoryPhase)).To(BeTrue())
		})

		It("rejects WriteRelease", func() {
			err := s.WriteRelease(model.Release{ReleaseID: "R1"})
			Expect(err).NotTo(BeNil())
		})

		It("rejects FinishMessage", func() {
			_, _, err := s.FinishMessage(nil)
			Expect(err).NotTo(BeNil())
		})
	})

	Describe("StartMessage", func() {
		It("transitions into InResources", func() {
			err := s.StartMessage(model.MessageHeader{Type: model.MessageTypeNewRelease}, model.V4_3, nil)
			Expect(err).To(BeNil())
			Expect(s.phase).To(Equal(phaseInResources))
		})

		It("rejects a second call", func() {
			Expect(s.StartMessage(model.MessageHeader{}, model.V4_3, nil)).To(BeNil())
			err := s.StartMessage(model.MessageHeader{}, model.V4_3, nil)
			Expect(err).NotTo(BeNil())
			Expect(ddexerr.Is(err, ddexerr.CategoryPhase)).To(BeTrue())
		})
	})

	Describe("once in InResources", func() {
		BeforeEach(func() {
			Expect(s.StartMessage(model.MessageHeader{Type: model.MessageTypeNewRelease}, model.V4_3, nil)).To(BeNil())
		})

		It("accepts WriteResource repeatedly", func() {
			Expect(s.WriteResource(model.Resource{ResourceReference: "A1"})).To(BeNil())
			Expect(s.WriteResource(model.Resource{ResourceReference: "A2"})).To(BeNil())
			Expect(s.phase).To(Equal(phaseInResources))
		})

		It("rejects WriteRelease before releases begin", func() {
			err := s.WriteRelease(model.Release{ReleaseID: "R1"})
			Expect(err).NotTo(BeNil())
		})

		It("rejects FinishMessage", func() {
			_, _, err := s.FinishMessage(nil)
			Expect(err).NotTo(BeNil())
		})

		It("transitions to InReleases on FinishResourcesStartReleases", func() {
			Expect(s.FinishResourcesStartReleases()).To(BeNil())
			Expect(s.phase).To(Equal(phaseInReleases))
		})
	})

	Describe("once in InReleases", func() {
		BeforeEach(func() {
			Expect(s.StartMessage(model.MessageHeader{Type: model.MessageTypeNewRelease}, model.V4_3, nil)).To(BeNil())
			Expect(s.FinishResourcesStartReleases()).To(BeNil())
		})

		It("rejects WriteResource", func() {
			err := s.WriteResource(model.Resource{ResourceReference: "A1"})
			Expect(err).NotTo(BeNil())
		})

		It("rejects a second FinishResourcesStartReleases", func() {
			err := s.FinishResourcesStartReleases()
			Expect(err).NotTo(BeNil())
		})

		It("accepts WriteRelease and transitions to Finished on FinishMessage", func() {
			release := model.Release{
				ReleaseID: "R1",
				Tracks: []model.Track{
					{Position: 1, ResourceReference: "A1"},
					{Position: 2, ResourceReference: "A2"},
				},
			}
			Expect(s.WriteRelease(release)).To(BeNil())
			xmlBytes, stats, err := s.FinishMessage(nil)
			Expect(err).To(BeNil())
			Expect(stats.ReleaseCount).To(Equal(1))
			Expect(stats.TrackCount).To(Equal(2), "TrackCount must reflect tracks written, not resources")
			Expect(string(xmlBytes)).To(ContainSubstring("<Release>"))
			Expect(s.phase).To(Equal(phaseFinished))
		})
	})

	Describe("after FinishMessage", func() {
		BeforeEach(func() {
			Expect(s.StartMessage(model.MessageHeader{Type: model.MessageTypeNewRelease}, model.V4_3, nil)).To(BeNil())
			Expect(s.FinishResourcesStartReleases()).To(BeNil())
			_, _, err := s.FinishMessage(nil)
			Expect(err).To(BeNil())
		})

		It("rejects every further call", func() {
			Expect(s.WriteResource(model.Resource{})).NotTo(BeNil())
			Expect(s.WriteRelease(model.Release{})).NotTo(BeNil())
			Expect(s.FinishResourcesStartReleases()).NotTo(BeNil())
			_, _, err := s.FinishMessage(nil)
			Expect(err).NotTo(BeNil())
		})
	})
})
