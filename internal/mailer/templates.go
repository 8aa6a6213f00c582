package mailer

import "html/template"

var dpmReceivedTmpl = template.Must(template.New("dpm_received").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hello {{.Name}},</h2>
  <p>You have received a DPM.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Type</strong></td><td>{{.DpmType}}</td></tr>
    <tr><td><strong>Date</strong></td><td>{{.ReceivedDate}}</td></tr>
    <tr><td><strong>Manager</strong></td><td>{{.Manager}}</td></tr>
  </table>
  <p>Sign in to <a href="{{.URL}}">UTS DPM</a> to view the details.</p>
  <p>If you believe this was sent in error, contact your manager.</p>
</body>
</html>`))

var pointsBalanceTmpl = template.Must(template.New("points_balance").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hello {{.Name}},</h2>
  <p>Your current points balance is <strong>{{.Points}}</strong>.</p>
  <p>If you have questions about your balance, contact {{.Manager}}.</p>
</body>
</html>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Welcome {{.Name}},</h2>
  <p>An account has been created for you on <a href="{{.URL}}">UTS DPM</a>.</p>
  <p>Your temporary password is <strong>{{.Password}}</strong>. You will be
  asked to change it the first time you sign in.</p>
</body>
</html>`))
