package mail

import "fmt"

// ResetPasswordEmail renders the password-reset message sent to the
// user, with a button linking to the reset URL.
func ResetPasswordEmail(name, resetURL string) string {
	return fmt.Sprintf(`
  <div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
    <h2>Hello %s,</h2>
    <p>You requested a password reset. Click the button below:</p>
    <a href="%s" style="
      display: inline-block;
      padding: 10px 20px;
      background-color: #007bff;
      color: white;
      text-decoration: none;
      border-radius: 5px;
    ">Reset Password</a>
    <p>If you didn't request this, you can safely ignore this email.</p>
    <br/>
    <p>Regards,<br/>The Authgate Team</p>
  </div>`, name, resetURL)
}
