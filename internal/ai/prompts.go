package ai

// DefaultSystemPrompt is the system-level instruction for match analysis.
const DefaultSystemPrompt = `You are an expert HR analyst and applicant tracking system specialist with a strict commitment to evidence-based assessment. Your core principles are:

- Base every score on information actually present in the documents
- Never assume skills or experience that is not stated
- Provide honest, data-driven analysis
- Keep all scores within the 0-100 range

Your expertise includes:
- Resume and job description matching
- ATS (Applicant Tracking System) compatibility analysis
- Candidate gap analysis and hiring probability assessment`

// DefaultUserPromptTemplate is the user prompt template for match analysis.
// Placeholders: job description, resume text, cover letter text.
const DefaultUserPromptTemplate = `Please analyze how well the candidate's documents match the job description.

**Tasks:**

1. **Overall Match** (0-100): how strongly the candidate's background fits this specific role.

2. **ATS Compatibility** (0-100): how reliably an applicant tracking system would parse the resume.

3. **Keyword Coverage**: which of the job's key technologies, skills, and tools appear in the candidate's documents, and which are absent.

4. **Section Scores** (0-100 each): rate the resume's contact_info, summary, experience, education, skills, and achievements sections.

5. **Hiring Probabilities** (0-100 each): estimate the probability of an interview invitation and of securing the job.

6. **Gap Analysis**: list concrete skill, experience, and education gaps relative to the job requirements.

7. **Recommendations**: 3-5 specific, actionable improvements for the candidate's documents.

**Job Description:**
-----
%s
-----

**Resume:**
-----
%s
-----

**Cover Letter (may be empty):**
-----
%s
-----`
