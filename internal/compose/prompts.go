package compose

const (
	greetingPrefix = "Bonjour ! Je suis votre assistant médical en ligne. Je suis là pour vous aider à mieux comprendre vos symptômes et vous orienter vers les prochaines étapes. Cela ne remplace pas un avis médical. "

	emergencyMessage = "🚨 **URGENCE MÉDICALE** 🚨\n\n" +
		"Les symptômes que vous décrivez sont **potentiellement graves** et nécessitent une **attention médicale immédiate**.\n\n" +
		"**Veuillez consulter un professionnel de la santé sans délai.**\n\n" +
		"Cet assistant ne peut pas remplacer un avis médical d'urgence. Votre sécurité est notre priorité absolue."

	// NoMatchMessage answers a retrieval query without a relevant record.
	NoMatchMessage    = "Je n'ai pas trouvé d'informations pertinentes pour votre requête dans ma base de connaissances."
	// EmptyQueryMessage answers a blank retrieval query.
	EmptyQueryMessage = "Veuillez fournir une requête."

	chatFallback = "Je ne suis pas en mesure de répondre aux questions libres pour le moment. Pour toute question concernant votre santé, veuillez consulter un médecin ou un professionnel de la santé."

	noDiagnosisFallback = "Bonjour ! Je suis là pour vous aider. D'après ce que vous me décrivez, il est difficile de poser un diagnostic précis pour le moment, et je n'ai pas trouvé d'informations spécifiques dans ma base de connaissances. Il est vraiment important de consulter un médecin ou un professionnel de la santé dès que possible pour obtenir un diagnostic précis et des conseils adaptés à votre situation."

	noDiagnosisWithEvidenceFallback = "Bonjour ! Je suis là pour vous aider. D'après ce que vous me décrivez, il est difficile de poser un diagnostic précis pour le moment. Voici toutefois une information de ma base de connaissances qui pourrait vous éclairer : %s.\n\nIl est vraiment important de consulter un médecin ou un professionnel de la santé dès que possible pour obtenir un diagnostic précis et des conseils adaptés à votre situation."

	noDiagnosisPrompt         = "L'utilisateur décrit les symptômes suivants : '%s'. Le système de diagnostic n'a pas pu identifier de maladie spécifique."
	noDiagnosisEvidencePrompt = " Cependant, j'ai trouvé des informations qui pourraient vous éclairer : %s."
	noDiagnosisClosingPrompt  = " Il est recommandé de consulter %s pour une évaluation approfondie. En tant qu'assistant médical, veuillez fournir une réponse empathique et rappeler l'importance de consulter un professionnel de la santé. La réponse doit être en français."

	diagnosisPrompt         = "En tant qu'assistant médical, reformulez le message suivant de manière plus naturelle et empathique, en insistant sur l'importance de la consultation médicale et en offrant des conseils généraux de bien-être. Le diagnostic principal est : **%s** (avec une probabilité de %.0f%%). "
	diagnosisEvidencePrompt = "Informations supplémentaires de la base de connaissances : %s. "
	diagnosisClosingPrompt  = "Il est **fortement recommandé de consulter %s** pour une évaluation et un diagnostic précis. La réponse doit être en français."

	diagnosisOpening    = "Bonjour ! Je suis là pour vous aider. D'après les symptômes que vous avez décrits, il semblerait que nous puissions envisager une piste principale : **%s** (avec une probabilité de %.0f%%)."
	diagnosisContext    = "\n\nPour vous donner plus de contexte, voici quelques informations sur cette condition : %s."
	diagnosisDisclaimer = "\n\nIl est crucial de comprendre que ces informations sont des indications basées sur notre base de connaissances et ne remplacent en aucun cas un diagnostic médical formel. Seul un professionnel de la santé qualifié, après un examen approfondi, pourra établir un diagnostic précis."
	diagnosisReferral   = "\n\n**Nous vous recommandons de consulter %s** pour une évaluation plus approfondie."
	diagnosisDoctors    = " Praticiens disponibles : %s."
	diagnosisCare       = "\n\nEn attendant votre consultation, je vous conseille de bien vous hydrater, de vous reposer et d'éviter tout effort physique intense. Prenez soin de vous."
	diagnosisClosing    = "\n\nN'hésitez pas si vous avez d'autres questions d'ordre général, je suis là pour y répondre. Cependant, pour toute préoccupation concernant votre santé, l'avis médical professionnel reste la priorité absolue."
)
