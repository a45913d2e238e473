package service

import (
	"fmt"

	"github.com/user/yamdb/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer 邮件发送接口
// 发送失败会作为硬错误返回给调用方，不做静默吞掉
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer 基于 SMTP 的邮件发送实现
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer 创建 SMTP 邮件发送器
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

// Send 发送邮件
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("邮件发送失败: %w", err)
	}
	return nil
}
