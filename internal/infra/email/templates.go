package email

import "html/template"

// Os três templates fixos. O conteúdo é em francês porque o produto
// atende a África do Oeste francófona; só o layout mudou do dashboard.

var transactionAlertTemplate = template.Must(template.New("transaction_alert").Parse(`
<html>
  <body style="font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; color: #444444;">
    <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
      <div style="background: #2ECC71; padding: 30px; border-radius: 10px 10px 0 0; text-align: center;">
        <h1 style="color: white; margin: 0; font-size: 24px;">🔄 Transaction en Cours - ChapMoney</h1>
      </div>
      <div style="padding: 30px;">
        <p>Bonjour Administrateur,</p>
        <p style="color: #c0392b; font-weight: bold; font-size: 18px;">❗ Une nouvelle transaction nécessite votre attention !</p>
        <p>Une activité financière vient d'être initiée sur la plateforme ChapMoney.</p>
        <p><strong>Détails importants :</strong></p>
        <ul>
          <li>Référence: {{.Reference}}</li>
          <li>Statut: En attente de validation</li>
          <li>Action requise: Vérification manuelle</li>
        </ul>
        <center>
          <a href="{{.DashboardURL}}" style="display: inline-block; background: #2ECC71; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold;">Vérifier la transaction</a>
        </center>
        <p>Pour des raisons de sécurité, cette opération doit être approuvée dans les plus brefs délais.</p>
      </div>
      <div style="text-align: center; padding: 20px; background: #f7f7f7; border-radius: 0 0 10px 10px; font-size: 12px; color: #666666;">
        <p>© ChapMoney - Tous droits réservés</p>
        <p>Ceci est un message automatique, merci de ne pas y répondre</p>
      </div>
    </div>
  </body>
</html>`))

var passwordResetLinkTemplate = template.Must(template.New("password_reset_link").Parse(`
<html>
  <body style="font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; color: #444444;">
    <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
      <div style="background: #3498db; padding: 30px; border-radius: 10px 10px 0 0; text-align: center;">
        <h1 style="color: white; margin: 0; font-size: 24px;">🔐 Réinitialisation de mot de passe</h1>
      </div>
      <div style="padding: 30px;">
        <p>Bonjour,</p>
        <p>Vous avez demandé une réinitialisation de votre mot de passe pour votre compte ChapMoney.</p>
        <p>Veuillez cliquer sur le bouton ci-dessous pour définir un nouveau mot de passe :</p>
        <center>
          <a href="{{.Link}}" style="display: inline-block; background: #3498db; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold;">Réinitialiser le mot de passe</a>
        </center>
        <p>Ce lien est valable pendant 30 minutes. Si vous n'avez pas fait cette demande, ignorez simplement cet email.</p>
      </div>
      <div style="text-align: center; padding: 20px; background: #f7f7f7; border-radius: 0 0 10px 10px; font-size: 12px; color: #666666;">
        <p>© ChapMoney - Tous droits réservés</p>
        <p>Ceci est un message automatique, merci de ne pas y répondre</p>
      </div>
    </div>
  </body>
</html>`))

var passwordResetOTPTemplate = template.Must(template.New("password_reset_otp").Parse(`
<html>
  <body style="font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; color: #444444;">
    <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
      <div style="background: #3498db; padding: 30px; border-radius: 10px 10px 0 0; text-align: center;">
        <h1 style="color: white; margin: 0; font-size: 24px;">🔐 Code de réinitialisation</h1>
      </div>
      <div style="padding: 30px;">
        <p>Bonjour,</p>
        <p>Voici votre code de réinitialisation de mot de passe :</p>
        <center>
          <p style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">{{.Code}}</p>
        </center>
        <p>Ce code expire dans 10 minutes. Si vous n'avez pas fait cette demande, ignorez simplement cet email.</p>
      </div>
      <div style="text-align: center; padding: 20px; background: #f7f7f7; border-radius: 0 0 10px 10px; font-size: 12px; color: #666666;">
        <p>© ChapMoney - Tous droits réservés</p>
        <p>Ceci est un message automatique, merci de ne pas y répondre</p>
      </div>
    </div>
  </body>
</html>`))
