package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

// SynthesisSystemInstructionV1 drives the OCR + standardization pass over
// uploaded document images.
const SynthesisSystemInstructionV1 = "You are a Clinical Data Synthesizer. Perform OCR on all uploaded clinical documents, " +
	"then merge and standardize all problems and medications into one JSON summary."

// SynthesisUserPromptV1 is appended after the image parts.
const SynthesisUserPromptV1 = "Extract all problems and medications and synthesize a unified JSON summary."

// ChatSystemInstructionV1 is the assistant's system context. The two %s
// placeholders are the patient name and the current record JSON snapshot.
const ChatSystemInstructionV1 = "You are a Clinical Data Assistant. You can answer questions or modify the patient's record. " +
	"You can also recommend additions, removals, or updates to their problems and medications based on best clinical practices, including dosage information. " +
	"The patient's name is %s. When modifying data, return a JSON block with " +
	"`action`, `target`, and `details` keys. Example: " +
	`{"action": "add", "target": "medications", "details": {"standard_name": "Lisinopril", ` +
	`"standard_code_type": "RxNorm", "standard_code_value": "29046"}}` + "\n" +
	"--- PATIENT RECORD ---\n%s"

// ChatGreetingV1 seeds every new session. Placeholders: patient name, id.
const ChatGreetingV1 = "Hello! I'm your assistant for %s (ID: %s). " +
	"Ask about their conditions, medications, or suggest updates."

// SummaryRegenerationPromptV1 asks for a one-sentence synthesis of the
// current record. Placeholder: record JSON.
const SummaryRegenerationPromptV1 = "Summarize this patient's current clinical record into a single concise sentence. " +
	"Include their major problems and medications.\n\nRECORD:\n%s"
