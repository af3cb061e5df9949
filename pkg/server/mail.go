package server

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"github.com/matcornic/hermes/v2"
)

const mailSender = "noreply@bgmatch.org"

var resultEmailConfig = hermes.Hermes{
	Product: hermes.Product{
		Name:      "bgmatch",
		Link:      " ",
		Copyright: " ",
	},
}

// resultEmail renders the plain text and HTML notice of a finished match.
func resultEmail(username string, opponent string, won bool, points int8, rating int) (string, string, error) {
	outcome := fmt.Sprintf("You lost your match against %s and your opponent scored %d points.", opponent, points)
	if won {
		outcome = fmt.Sprintf("You won your match against %s and scored %d points.", opponent, points)
	}
	intros := []string{outcome}
	if rating != 0 {
		intros = append(intros, fmt.Sprintf("Your rating is now %d.", rating/100))
	}

	email := hermes.Email{
		Body: hermes.Body{
			Name:      username,
			Greeting:  "Hello",
			Intros:    intros,
			Outros:    []string{"Thank you for playing."},
			Signature: "Ciao",
		},
	}
	emailPlain, err := resultEmailConfig.GeneratePlainText(email)
	if err != nil {
		return "", "", err
	}
	emailHTML, err := resultEmailConfig.GenerateHTML(email)
	if err != nil {
		return "", "", err
	}
	return emailPlain, emailHTML, nil
}

// writeEmail writes a message with plain text and HTML alternatives.
func writeEmail(w io.Writer, emailAddress string, emailSubject string, emailPlain string, emailHTML string) error {
	content := &bytes.Buffer{}
	altWriter := multipart.NewWriter(content)

	part, err := altWriter.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return err
	}
	part.Write([]byte(emailPlain))
	part, err = altWriter.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return err
	}
	part.Write([]byte(emailHTML))
	err = altWriter.Close()
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, "From: bgmatch <"+mailSender+">\r\n"+
		"To: <"+emailAddress+">\r\n"+
		"Subject: "+emailSubject+"\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: multipart/alternative; boundary="+altWriter.Boundary()+"\r\n\r\n")
	if err != nil {
		return err
	}
	_, err = w.Write(content.Bytes())
	return err
}

func sendEmail(mailServer string, emailAddress string, emailSubject string, emailPlain string, emailHTML string) error {
	c, err := smtp.Dial(mailServer)
	if err != nil {
		return err
	}
	defer c.Close()

	err = c.Mail(mailSender)
	if err != nil {
		return err
	}
	err = c.Rcpt(emailAddress)
	if err != nil {
		return err
	}

	wc, err := c.Data()
	if err != nil {
		return err
	}
	err = writeEmail(wc, emailAddress, emailSubject, emailPlain, emailHTML)
	if err != nil {
		wc.Close()
		return err
	}
	err = wc.Close()
	if err != nil {
		return err
	}
	return c.Quit()
}

// mailResult notifies an account of the result of a match. Nothing is sent
// when no mail server is configured.
func (s *server) mailResult(a *account, opponent string, won bool, points int8, rating int) {
	if s.mailServer == "" || a == nil || len(a.email) == 0 {
		return
	}

	emailPlain, emailHTML, err := resultEmail(string(a.username), opponent, won, points, rating)
	if err != nil {
		log.Printf("failed to render result email: %s", err)
		return
	}
	go func() {
		err := sendEmail(s.mailServer, string(a.email), "Your bgmatch result", emailPlain, emailHTML)
		if err != nil {
			log.Printf("failed to send result email to account %d: %s", a.id, err)
		}
	}()
}
