package vlm

import (
	"github.com/cloudwego/eino/schema"

	"github.com/ayeco/segnalago/internal/attachment"
)

// riskPrompt instructs the model to grade the photographed issue and
// answer with a single JSON object using the payload keys the
// extractor expects.
const riskPrompt = `Analizza l'immagine e assegna un livello di rischio:
- Basso rischio (1): Il problema non rappresenta un pericolo immediato ma richiede intervento per prevenire danni futuri.
- Medio rischio (2): Il problema può causare disagi e potenziali incidenti se non risolto in tempi brevi.
- Alto rischio (3): Il problema rappresenta un pericolo immediato per la sicurezza pubblica e richiede un intervento urgente.

Categorie di valutazione:
1. Strada Pubblica
2. Verde Urbano
3. Edifici e Infrastrutture
4. Altre criticità (illuminazione, segnaletica, sicurezza urbana)

Fornisci la risposta in formato JSON strutturato con i seguenti campi:
- livello_pericolosita: numero intero da 1 a 3
- categoria: una delle categorie elencate sopra
- descrizione: descrizione dettagliata del problema
- raccomandazione: suggerimento chiaro per l'amministrazione comunale

Assicurati che il JSON sia valido e correttamente formattato.`

// RiskAssessmentMessage builds the single multimodal user turn sent
// for a risk assessment: the grading prompt plus the photo as a
// base64 data URI image part.
func RiskAssessmentMessage(img *attachment.Image) *schema.Message {
	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{
				Type: schema.ChatMessagePartTypeText,
				Text: riskPrompt,
			},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:      img.DataURI(),
					MIMEType: img.MIMEType(),
					Detail:   schema.ImageURLDetailAuto,
				},
			},
		},
	}
}

// UserMessage builds a chat user turn, multimodal when an image is
// attached.
func UserMessage(text string, img *attachment.Image) *schema.Message {
	if img == nil {
		return schema.UserMessage(text)
	}
	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{
				Type: schema.ChatMessagePartTypeText,
				Text: text,
			},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:      img.DataURI(),
					MIMEType: img.MIMEType(),
					Detail:   schema.ImageURLDetailAuto,
				},
			},
		},
	}
}

// MessageText returns the textual content of a message, joining the
// text parts of multimodal turns.
func MessageText(msg *schema.Message) string {
	if msg == nil {
		return ""
	}
	if len(msg.MultiContent) == 0 {
		return msg.Content
	}
	var text string
	for _, part := range msg.MultiContent {
		if part.Type == schema.ChatMessagePartTypeText {
			if text != "" {
				text += "\n"
			}
			text += part.Text
		}
	}
	return text
}
