package mailer_test

import (
	"bytes"
	"context"
	"mime"
	"strings"
	"time"

	"salarycheck/internal/mailer"
	"salarycheck/internal/testhelpers"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func render(m *mail.Msg) string {
	GinkgoHelper()

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	Expect(err).NotTo(HaveOccurred())
	return buf.String()
}

// decodeHeader joins and decodes RFC 2047 encoded words.
func decodeHeader(values []string) string {
	GinkgoHelper()

	decoded, err := new(mime.WordDecoder).DecodeHeader(strings.Join(values, " "))
	Expect(err).NotTo(HaveOccurred())
	return decoded
}

var _ = Describe("SMTPSender.Build", func() {
	cfg := mailer.SMTPConfig{
		Host:         "smtp.example.com",
		Port:         465,
		FallbackPort: 25,
		Username:     "bot@example.com",
		FromName:     "工资核对提醒",
		ReplyTo:      "hr@example.com",
		Timeout:      5 * time.Second,
	}
	sender := mailer.NewSMTPSender(cfg, zap.NewNop().Sugar())

	It("builds an html message with sender, reply-to and recipients", func() {
		m, err := sender.Build(&mailer.Message{
			To:      []string{"alice@x.com", "alice2@x.com"},
			Subject: "【您的待核对】06-03",
			HTML:    "<p>hi</p>",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(m.GetToString()).To(Equal([]string{"<alice@x.com>", "<alice2@x.com>"}))
		Expect(m.GetFromString()).To(ContainElement(ContainSubstring("bot@example.com")))
		Expect(decodeHeader(m.GetGenHeader(mail.HeaderSubject))).To(Equal("【您的待核对】06-03"))

		raw := render(m)
		Expect(raw).To(ContainSubstring("Reply-To:"))
		Expect(raw).To(ContainSubstring("hr@example.com"))
		Expect(raw).To(ContainSubstring("Message-ID:"))
		Expect(raw).To(ContainSubstring("Date:"))
		Expect(raw).To(ContainSubstring("text/html"))
	})

	It("omits reply-to when not configured", func() {
		noReply := cfg
		noReply.ReplyTo = ""
		m, err := mailer.NewSMTPSender(noReply, zap.NewNop().Sugar()).Build(&mailer.Message{To: []string{"a@x.com"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(render(m)).NotTo(ContainSubstring("Reply-To"))
	})

	It("rejects messages without recipients", func() {
		_, err := sender.Build(&mailer.Message{Subject: "s"})
		Expect(eris.Is(err, mailer.ErrNoRecipients)).To(BeTrue())
	})

	It("rejects malformed addresses", func() {
		_, err := sender.Build(&mailer.Message{To: []string{"not an address"}})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LogSender", func() {
	It("logs instead of sending", func() {
		log, logs := testhelpers.ObservedLogger()
		s := &mailer.LogSender{Log: log}

		Expect(s.Send(context.Background(), &mailer.Message{To: []string{"a@x.com"}, Subject: "s"})).To(Succeed())
		Expect(logs.FilterMessage("dry run, message not sent").Len()).To(Equal(1))
	})

	It("still validates recipients", func() {
		s := &mailer.LogSender{Log: zap.NewNop().Sugar()}
		Expect(s.Send(context.Background(), &mailer.Message{To: []string{" "}})).To(MatchError(ContainSubstring("no recipients")))
	})
})
